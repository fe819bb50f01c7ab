// report.go --  This file is part of goE2 project.
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
	"io"
	"strings"
)

// orbitalTag prints an orbital the way JANPA users read them: CLPO name
// plus 1-based index.
func orbitalTag(o Orbital) string {
	return fmt.Sprintf("%s (%d)", o.Name, o.Index+1)
}

// RenderReport writes the classification summary and the ranked pair
// table. Couplings and gaps are in hartree, E2 in kcal/mol with two
// decimals, occupations and charge transfer with four.
func RenderReport(w io.Writer, orbs []Orbital, pairs []Pair) {
	donors, acceptors, ambiguous := byRole(orbs)
	fmt.Fprintf(w, "Orbitals: %d total, %d donor, %d acceptor, %d ambiguous\n",
		len(orbs), len(donors), len(acceptors), len(ambiguous))
	if len(ambiguous) > 0 {
		fmt.Fprintln(w, "Ambiguous orbitals (excluded from pairing):")
		for _, o := range ambiguous {
			fmt.Fprintf(w, "    %-24s occupancy %8.4f  energy %10.5f a.u.\n",
				orbitalTag(o), o.Occupation, o.Energy)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-24s %-24s %9s %9s %11s %12s %9s %14s  %s\n",
		"Donor orbital", "Acceptor orbital", "Occ(don)", "Occ(acc)",
		"F(d,a)/au", "dE/au", "q_CT/e", "E2/kcal*mol-1", "note")
	fmt.Fprintln(w, strings.Repeat("-", 127))
	for _, p := range pairs {
		e2 := fmt.Sprintf("%14.2f", p.E2)
		if p.Status != PairOK {
			e2 = fmt.Sprintf("%14s", "---")
		}
		fmt.Fprintf(w, "%-24s %-24s %9.4f %9.4f %11.6f %12.6f %9.4f %s  %s\n",
			orbitalTag(p.Donor), orbitalTag(p.Acceptor),
			p.Donor.Occupation, p.Acceptor.Occupation,
			p.Fij, p.Gap, p.QCT, e2, p.Status)
	}
}
