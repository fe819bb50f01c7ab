// orbitals.go --  This file is part of goE2 project.
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

import "fmt"

// Role classifies an orbital by its occupation.
type Role int

const (
	Donor Role = iota // filled, Lewis-type
	Acceptor          // empty, non-Lewis/antibonding-type
	Ambiguous         // occupation in neither band; excluded from pairing
)

func (r Role) String() string {
	switch r {
	case Donor:
		return "donor"
	case Acceptor:
		return "acceptor"
	}
	return "ambiguous"
}

// Orbital is one index of the working (CLPO) basis, with its Fock
// diagonal energy in hartree and SDS diagonal occupation in electrons.
// Index is the position in the transformed matrices, so off-diagonal
// Fock lookups by (donor.Index, acceptor.Index) stay valid.
type Orbital struct {
	Index      int
	Name       string
	Energy     float64
	Occupation float64
	Role       Role
}

// Thresholds is the occupation band policy: at or above DonorOcc is a
// donor, at or below AcceptorOcc an acceptor, strictly between the two
// the orbital is ambiguous and reported rather than silently assigned.
type Thresholds struct {
	DonorOcc    float64
	AcceptorOcc float64
}

// Defaults leave a wide ambiguous band; CLPO Lewis orbitals sit near 2.0
// and anti-bonds near 0.0, so anything else deserves a look.
var DefaultThresholds = Thresholds{DonorOcc: 1.90, AcceptorOcc: 0.10}

// Classify assigns every orbital of the working basis exactly one role
// from the diagonals of the transformed SDS and Fock matrices. The result
// preserves basis order, one Orbital per index, no gaps.
func Classify(fock, sds *Matrix, th Thresholds) ([]Orbital, error) {
	fr, fc := fock.Dims()
	sr, sc := sds.Dims()
	if fr != fc || sr != sc || fr != sr {
		return nil, &DimensionMismatchError{Op: "Classify", Left: dimString(fock), Right: dimString(sds)}
	}
	if th.DonorOcc <= th.AcceptorOcc {
		return nil, fmt.Errorf("Classify: donor threshold %g must exceed acceptor threshold %g", th.DonorOcc, th.AcceptorOcc)
	}
	orbs := make([]Orbital, fr)
	for i := range orbs {
		occ := sds.At(i, i)
		o := Orbital{
			Index:      i,
			Name:       fock.Row.Label(i),
			Energy:     fock.At(i, i),
			Occupation: occ,
		}
		switch {
		case occ >= th.DonorOcc:
			o.Role = Donor
		case occ <= th.AcceptorOcc:
			o.Role = Acceptor
		default:
			o.Role = Ambiguous
		}
		orbs[i] = o
	}
	return orbs, nil
}

// byRole splits classified orbitals into the two pairing sets, keeping
// basis order within each.
func byRole(orbs []Orbital) (donors, acceptors, ambiguous []Orbital) {
	for _, o := range orbs {
		switch o.Role {
		case Donor:
			donors = append(donors, o)
		case Acceptor:
			acceptors = append(acceptors, o)
		default:
			ambiguous = append(ambiguous, o)
		}
	}
	return
}
