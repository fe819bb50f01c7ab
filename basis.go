// basis.go --  This file is part of goE2 project.
//
//	goE2 is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DimensionMismatchError reports incompatible matrix shapes during a
// basis transformation. It aborts the run; a retry would not change the
// outcome.
type DimensionMismatchError struct {
	Op    string
	Left  string
	Right string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: incompatible dimensions %s x %s", e.Op, e.Left, e.Right)
}

func dimString(m *Matrix) string {
	r, c := m.Dims()
	return fmt.Sprintf("%dx%d (%s,%s)", r, c, m.Row.Kind, m.Col.Kind)
}

// conformable checks that the column basis of the left operand matches
// the row basis of the right one, which is the only condition under which
// a product of tagged matrices means anything.
func conformable(op string, a, b *Matrix) error {
	_, ac := a.Dims()
	br, _ := b.Dims()
	if ac != br || (a.Col.Kind != "" && b.Row.Kind != "" && a.Col.Kind != b.Row.Kind) {
		return &DimensionMismatchError{Op: op, Left: dimString(a), Right: dimString(b)}
	}
	return nil
}

// Project re-expresses an operator given in basis B1 x B1 in the basis B2
// named by the columns of the change-of-basis matrix c (B1 rows, B2
// columns), as C^T * Op * C. A non-square c projects onto a reduced
// orbital subset. Inputs are not mutated.
func Project(op, c *Matrix) (*Matrix, error) {
	if err := conformable("Project", op, c); err != nil {
		return nil, err
	}
	or, oc := op.Dims()
	if or != oc {
		return nil, &DimensionMismatchError{Op: "Project", Left: dimString(op), Right: "square operator"}
	}
	var tmp, out mat.Dense
	tmp.Mul(op.Data, c.Data)
	out.Mul(c.Data.T(), &tmp)
	return &Matrix{Data: &out, Row: c.Col, Col: c.Col}, nil
}

// Compose folds two sequential changes of basis (B1->B2 then B2->B3) into
// a single B1->B3 matrix, so the operator is projected once instead of
// materializing the intermediate basis.
func Compose(c1, c2 *Matrix) (*Matrix, error) {
	if err := conformable("Compose", c1, c2); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(c1.Data, c2.Data)
	return &Matrix{Data: &out, Row: c1.Row, Col: c2.Col}, nil
}

// Invert reverses a square change of basis, swapping its row and column
// bases (labels included). A singular transform is an input error.
func Invert(c *Matrix) (*Matrix, error) {
	r, n := c.Dims()
	if r != n {
		return nil, &DimensionMismatchError{Op: "Invert", Left: dimString(c), Right: "square transform"}
	}
	var out mat.Dense
	if err := out.Inverse(c.Data); err != nil {
		return nil, fmt.Errorf("Invert %s->%s transform: %w", c.Row.Kind, c.Col.Kind, err)
	}
	return &Matrix{Data: &out, Row: c.Col, Col: c.Row}, nil
}
