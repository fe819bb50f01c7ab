// main.go --  This file is part of goE2 project.
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
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
)

var (
	WarningLogger *log.Logger
	InfoLogger    *log.Logger
	ErrorLogger   *log.Logger
	OutputLogger  *log.Logger
)

var (
	fockFile = flag.String("F", "Fock_NAO.txt", "Fock matrix in NAO basis (JANPA -Fock_NAO_File)")
	sdsFile  = flag.String("SDS", "SDS_NAO.txt", "SDS density matrix in NAO basis (JANPA -SDS_NAO_File)")
	c2lFile  = flag.String("C2L", "CLPO2LHO.txt", "CLPO to LHO transformation matrix (JANPA -CLPO2LHO_File)")
	l2nFile  = flag.String("L2N", "LHO2NAO.txt", "LHO to NAO transformation matrix (JANPA -LHO2NAO_File)")
	outFname = flag.String("O", "E2_output.txt", "output report file")
	donorOcc = flag.Float64("donor", DefaultThresholds.DonorOcc, "occupancy at or above which an orbital is a donor")
	accptOcc = flag.Float64("acceptor", DefaultThresholds.AcceptorOcc, "occupancy at or below which an orbital is an acceptor")
	minGap   = flag.Float64("mingap", DefaultEngineParams.MinGap, "smallest orbital energy gap (a.u.) safe to divide by")
	qctMin   = flag.Float64("qct", 0, "drop pairs with charge transfer below this many electrons (0 keeps all)")
	e2Min    = flag.Float64("e2min", 0, "drop pairs with |E2| below this many kcal/mol (0 keeps all)")
	fieldW   = flag.Int("fw", 0, "parse matrix dumps as fixed-width fields of this many bytes instead of whitespace")
	stepwise = flag.Bool("stepwise", false, "apply the NAO->LHO and LHO->CLPO projections one at a time, logging the intermediate diagonals")
	nprocs   = flag.Int("np", 0, "number of threads for pair evaluation (0 leaves GOMAXPROCS alone)")
)

func initLog(fname string) *os.File {
	file, err := os.OpenFile(fname, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}

	InfoLogger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	WarningLogger = log.New(file, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger = log.New(file, "", 0)
	return file
}

func appInfo() {
	OutputLogger.Println("goE2 -- second order perturbation (E2) analysis of JANPA CLPO orbitals.\n" +
		"Needs the matrices JANPA writes under\n" +
		"-doFock -Fock_NAO_File -SDS_NAO_File -CLPO2LHO_File -LHO2NAO_File\n" +
		"See Nikolaienko, Kryachko, Dolgonos, J. Comput. Chem. 39 (2018) 1090\n" +
		"for the calculation procedure, and janpa.sourceforge.net for JANPA.")
}

func printOutputDelimiter() {
	OutputLogger.Println(strings.Repeat("-", 70))
}

// loadMatrices reads the four JANPA dumps, checks they share one NAO
// order, and pulls Fock and SDS back from the NAO into the CLPO basis
// through NAO->LHO->CLPO. The two inverted transforms are composed into a
// single change of basis unless stepwise is set, which projects through
// the intermediate LHO frame one step at a time and logs its diagonal.
func loadMatrices(rd *Reader, stepwise bool) (fockCLPO, sdsCLPO *Matrix, err error) {
	type input struct {
		fname string
		kind  MatrixKind
	}
	inputs := []input{
		{*fockFile, FockNAO},
		{*sdsFile, SDSNAO},
		{*c2lFile, CLPO2LHO},
		{*l2nFile, LHO2NAO},
	}
	loaded := make([]*Matrix, len(inputs))
	for i, in := range inputs {
		if loaded[i], err = rd.Load(in.fname, in.kind); err != nil {
			return nil, nil, err
		}
	}
	fock, sds, c2l, l2n := loaded[0], loaded[1], loaded[2], loaded[3]

	n, _ := fock.Dims()
	for i, m := range loaded {
		if r, c := m.Dims(); r != n || c != n {
			return nil, nil, formatErrf(inputs[i].fname,
				"%s matrix is %dx%d, want %dx%d to match %s", inputs[i].kind, r, c, n, n, *fockFile)
		}
	}
	InfoLogger.Println("Loaded all four matrices, NAO basis order", n)

	nao2lho, err := Invert(l2n)
	if err != nil {
		return nil, nil, err
	}
	lho2clpo, err := Invert(c2l)
	if err != nil {
		return nil, nil, err
	}

	if stepwise {
		fockLHO, err := Project(fock, nao2lho)
		if err != nil {
			return nil, nil, err
		}
		sdsLHO, err := Project(sds, nao2lho)
		if err != nil {
			return nil, nil, err
		}
		OutputLogger.Println("Intermediate LHO-basis diagonals (energy / occupancy):")
		for i := 0; i < n; i++ {
			OutputLogger.Printf("  LHO %4d  %12.6f  %10.6f", i+1, fockLHO.At(i, i), sdsLHO.At(i, i))
		}
		if fockCLPO, err = Project(fockLHO, lho2clpo); err != nil {
			return nil, nil, err
		}
		if sdsCLPO, err = Project(sdsLHO, lho2clpo); err != nil {
			return nil, nil, err
		}
		return fockCLPO, sdsCLPO, nil
	}

	nao2clpo, err := Compose(nao2lho, lho2clpo)
	if err != nil {
		return nil, nil, err
	}
	if fockCLPO, err = Project(fock, nao2clpo); err != nil {
		return nil, nil, err
	}
	if sdsCLPO, err = Project(sds, nao2clpo); err != nil {
		return nil, nil, err
	}
	return fockCLPO, sdsCLPO, nil
}

func main() {
	flag.Parse()
	if *nprocs > 0 {
		runtime.GOMAXPROCS(*nprocs)
	}

	out := initLog(*outFname)
	defer out.Close()

	InfoLogger.Println("Starting goE2...")
	appInfo()
	printOutputDelimiter()

	rd := NewReader()
	if *fieldW > 0 {
		rd.Tokenize = FixedWidth(*fieldW)
	}

	fock, sds, err := loadMatrices(rd, *stepwise)
	if err != nil {
		fmt.Println("ERROR:", err)
		ErrorLogger.Fatal(err)
	}

	th := Thresholds{DonorOcc: *donorOcc, AcceptorOcc: *accptOcc}
	orbs, err := Classify(fock, sds, th)
	if err != nil {
		fmt.Println("ERROR:", err)
		ErrorLogger.Fatal(err)
	}
	donors, acceptors, ambiguous := byRole(orbs)
	for _, o := range ambiguous {
		WarningLogger.Printf("orbital %s occupancy %.4f is in the ambiguous band (%g, %g); excluded from pairing",
			orbitalTag(o), o.Occupation, *accptOcc, *donorOcc)
	}

	params := EngineParams{MinGap: *minGap, QCTMin: *qctMin, E2Min: *e2Min}
	pairs := Pairs(orbs, fock, sds, params)
	for _, p := range pairs {
		if p.Status != PairOK {
			WarningLogger.Printf("pair %s -> %s: %s (dE = %.6f a.u.); no E2 computed",
				orbitalTag(p.Donor), orbitalTag(p.Acceptor), p.Status, p.Gap)
		}
	}

	printOutputDelimiter()
	RenderReport(out, orbs, pairs)
	printOutputDelimiter()
	InfoLogger.Println("Exiting goE2...")

	fmt.Printf("goE2 done: %d donors x %d acceptors, %d pairs reported, output in %s\n",
		len(donors), len(acceptors), len(pairs), *outFname)
}
