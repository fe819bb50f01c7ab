// e2.go --  This file is part of goE2 project.
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
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/slices"
)

var hartree2kcal = 627.509

// PairStatus marks donor-acceptor pairs whose energy gap makes the
// perturbation formula meaningless. Marked pairs are reported, never
// silently dropped, and never get a finite E2.
type PairStatus int

const (
	PairOK PairStatus = iota
	PairNearDegenerate // |dE| below the safe-division floor
	PairInvertedGap    // acceptor below donor; points at a classification problem
)

func (s PairStatus) String() string {
	switch s {
	case PairNearDegenerate:
		return "near-degenerate"
	case PairInvertedGap:
		return "inverted gap"
	}
	return ""
}

// Pair is one donor->acceptor interaction: the off-diagonal Fock coupling
// Fij and energy gap in hartree, the charge-transfer estimate qCT in
// electrons, and the second-order perturbation energy E2 in kcal/mol
// (NaN unless Status is PairOK). Immutable after creation.
type Pair struct {
	Donor    Orbital
	Acceptor Orbital
	Fij      float64
	Gap      float64
	QCT      float64
	E2       float64
	Status   PairStatus
}

// EngineParams tunes the pair evaluation. MinGap (hartree) is the floor
// below which a gap counts as degenerate. QCTMin and E2Min are explicit
// reporting cutoffs for well-formed pairs; zero keeps everything.
type EngineParams struct {
	MinGap float64
	QCTMin float64
	E2Min  float64
}

var DefaultEngineParams = EngineParams{MinGap: 1e-3}

// Pairs evaluates E2 = -2*Fij^2/dE for every donor x acceptor combination
// of the classified orbitals, against the Fock and SDS matrices in the
// same (CLPO) basis the orbitals were classified in. Donor rows are
// evaluated concurrently into preallocated slots, so the result is
// deterministic: ranked by descending |E2|, marked pairs after all
// finite ones.
func Pairs(orbs []Orbital, fock, sds *Matrix, p EngineParams) []Pair {
	donors, acceptors, _ := byRole(orbs)
	rows := make([][]Pair, len(donors))
	eval := func(lo, hi int) {
		for di := lo; di < hi; di++ {
			rows[di] = pairRow(donors[di], acceptors, fock, sds, p)
		}
	}

	nw := runtime.GOMAXPROCS(-1)
	if nw > len(donors) {
		nw = len(donors)
	}
	if nw > 1 {
		chunk := (len(donors) + nw - 1) / nw
		var wg sync.WaitGroup
		for lo := 0; lo < len(donors); lo += chunk {
			hi := lo + chunk
			if hi > len(donors) {
				hi = len(donors)
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				eval(lo, hi)
			}(lo, hi)
		}
		wg.Wait()
	} else {
		eval(0, len(donors))
	}

	var pairs []Pair
	for _, row := range rows {
		pairs = append(pairs, row...)
	}
	slices.SortFunc(pairs, rankPairs)
	return pairs
}

func pairRow(d Orbital, acceptors []Orbital, fock, sds *Matrix, p EngineParams) []Pair {
	row := make([]Pair, 0, len(acceptors))
	for _, a := range acceptors {
		pr := Pair{
			Donor:    d,
			Acceptor: a,
			Fij:      fock.At(d.Index, a.Index),
			Gap:      a.Energy - d.Energy,
			E2:       math.NaN(),
		}
		dij := sds.At(d.Index, a.Index)
		pr.QCT = dij * dij / d.Occupation
		switch {
		case math.Abs(pr.Gap) < p.MinGap:
			pr.Status = PairNearDegenerate
		case pr.Gap < 0:
			pr.Status = PairInvertedGap
		default:
			pr.E2 = -2 * pr.Fij * pr.Fij / pr.Gap * hartree2kcal
			if p.QCTMin > 0 && pr.QCT < p.QCTMin {
				continue
			}
			if p.E2Min > 0 && math.Abs(pr.E2) < p.E2Min {
				continue
			}
		}
		row = append(row, pr)
	}
	return row
}

// rankPairs orders finite pairs by descending |E2|; marked pairs follow,
// in basis order. Index ties keep the output stable across runs.
func rankPairs(a, b Pair) int {
	aok := a.Status == PairOK
	bok := b.Status == PairOK
	switch {
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	case aok && bok:
		d := math.Abs(b.E2) - math.Abs(a.E2)
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	if a.Donor.Index != b.Donor.Index {
		return a.Donor.Index - b.Donor.Index
	}
	return a.Acceptor.Index - b.Acceptor.Index
}
