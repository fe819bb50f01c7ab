// helper_test.go --  This file is part of goE2 project.
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

import "gonum.org/v1/gonum/mat"

func flatten(arr [][]float64) []float64 {
	res := make([]float64, 0, len(arr)*len(arr[0]))
	for i := range arr {
		res = append(res, arr[i]...)
	}
	return res
}

// operator builds a square tagged matrix living in one basis.
func operator(kind string, rows [][]float64) *Matrix {
	n := len(rows)
	return &Matrix{
		Data: mat.NewDense(n, n, flatten(rows)),
		Row:  Basis{Kind: kind},
		Col:  Basis{Kind: kind},
	}
}

// transform builds a (possibly non-square) change-of-basis matrix.
func transform(rowKind, colKind string, rows [][]float64) *Matrix {
	return &Matrix{
		Data: mat.NewDense(len(rows), len(rows[0]), flatten(rows)),
		Row:  Basis{Kind: rowKind},
		Col:  Basis{Kind: colKind},
	}
}
