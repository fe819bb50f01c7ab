// matio.go --  This file is part of goE2 project.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// MatrixKind names the four matrix dumps JANPA writes when invoked with
// -doFock -Fock_NAO_File -SDS_NAO_File -CLPO2LHO_File -LHO2NAO_File.
type MatrixKind int

const (
	FockNAO MatrixKind = iota
	SDSNAO
	CLPO2LHO
	LHO2NAO
)

func (k MatrixKind) String() string {
	switch k {
	case FockNAO:
		return "Fock(NAO)"
	case SDSNAO:
		return "SDS(NAO)"
	case CLPO2LHO:
		return "CLPO->LHO"
	case LHO2NAO:
		return "LHO->NAO"
	}
	return "unknown"
}

// bases gives the row and column basis a matrix of this kind lives in.
// A transformation matrix X->Y has X rows and Y columns, so that applying
// it as C^T * Op * C re-expresses Op from the X basis in the Y basis.
func (k MatrixKind) bases() (row, col string) {
	switch k {
	case FockNAO, SDSNAO:
		return "NAO", "NAO"
	case CLPO2LHO:
		return "CLPO", "LHO"
	case LHO2NAO:
		return "LHO", "NAO"
	}
	return "", ""
}

// Basis is an ordered set of orbital identifiers naming a coordinate
// system. Labels is empty when the dump carries no name column; otherwise
// Labels[i] names orbital i.
type Basis struct {
	Kind   string
	Labels []string
}

// Label returns the name of orbital i, or "unknown" when the source file
// carried no names.
func (b Basis) Label(i int) string {
	if i < len(b.Labels) && b.Labels[i] != "" {
		return b.Labels[i]
	}
	return "unknown"
}

// Matrix is a dense real matrix tagged with the bases its rows and
// columns are expressed in. Once built it is never mutated; every
// transformation produces a new Matrix.
type Matrix struct {
	Data *mat.Dense
	Row  Basis
	Col  Basis
}

// Dims returns the row and column counts.
func (m *Matrix) Dims() (r, c int) { return m.Data.Dims() }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.Data.At(i, j) }

// FormatError reports a malformed or dimensionally inconsistent matrix
// file. File and dimension errors abort the run before any transformation.
type FormatError struct {
	File string
	Msg  string
}

func (e *FormatError) Error() string {
	return "malformed matrix file " + e.File + ": " + e.Msg
}

func formatErrf(file, format string, args ...interface{}) *FormatError {
	return &FormatError{File: file, Msg: fmt.Sprintf(format, args...)}
}

// A Tokenizer splits one line of a matrix dump into raw fields. It is a
// function value so the reader can be pointed at a different dump layout
// without touching the parsing loop.
type Tokenizer func(line string) []string

// SplitFields is the default Tokenizer: whitespace-separated fields.
func SplitFields(line string) []string {
	return strings.Fields(line)
}

// FixedWidth returns a Tokenizer that slices each line into fields of w
// bytes, for dumps whose columns can touch without separating whitespace.
// Slicing stops at the first non-numeric field; the rest of the line is
// kept whole as the label column, whose width owes nothing to w.
func FixedWidth(w int) Tokenizer {
	return func(line string) []string {
		var fields []string
		for len(line) > 0 {
			n := w
			if n > len(line) {
				n = len(line)
			}
			f := strings.TrimSpace(line[:n])
			if f != "" {
				if _, err := strconv.ParseFloat(f, 64); err != nil {
					if rest := strings.TrimSpace(line); rest != "" {
						fields = append(fields, rest)
					}
					return fields
				}
				fields = append(fields, f)
			}
			line = line[n:]
		}
		return fields
	}
}

// splitGlued recovers values glued together when a fixed-width field
// overflows into the sign column of the next one, e.g.
// "-0.123456-0.654321". It splits before every '-' that follows a digit
// or '.', leaving exponents ("1.2E-03") intact. ok is false when any
// resulting piece is still not a number.
func splitGlued(tok string) (vals []float64, ok bool) {
	start := 0
	for i := 1; i < len(tok); i++ {
		if tok[i] != '-' {
			continue
		}
		prev := tok[i-1]
		if prev == 'e' || prev == 'E' {
			continue
		}
		if prev >= '0' && prev <= '9' || prev == '.' {
			v, err := strconv.ParseFloat(tok[start:i], 64)
			if err != nil {
				return nil, false
			}
			vals = append(vals, v)
			start = i
		}
	}
	v, err := strconv.ParseFloat(tok[start:], 64)
	if err != nil {
		return nil, false
	}
	return append(vals, v), true
}

// refitFixedWidth re-tokenizes a line whose whitespace fields were not
// all numeric, assuming columns of one fixed width that may touch (two
// positive values glued leave no sign for splitGlued to cut at). It
// tries every field count from want down to 2 whose width divides the
// line evenly and takes the first slicing where every field parses.
func refitFixedWidth(line string, want int) ([]float64, bool) {
	for k := want; k >= 2; k-- {
		if len(line)%k != 0 {
			continue
		}
		w := len(line) / k
		fields := FixedWidth(w)(line)
		if len(fields) != k {
			continue
		}
		vals := make([]float64, k)
		ok := true
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if ok {
			return vals, true
		}
	}
	return nil, false
}

// Reader parses JANPA matrix dumps. The zero value is not usable; get one
// from NewReader and swap Tokenize for fixed-width layouts.
type Reader struct {
	Tokenize Tokenizer
}

func NewReader() *Reader {
	return &Reader{Tokenize: SplitFields}
}

// maxHeaderLines bounds the search for the dimension line; a file with no
// dimensions this early is malformed, dimensions are never guessed from
// the body.
const maxHeaderLines = 8

// Load reads one matrix dump. The expected layout is a short header of
// title lines followed by a line declaring the dimensions (one integer
// for a square matrix, or rows and columns), then the values in row-major
// order. Rows wider than the dump's line limit wrap onto continuation
// lines. A trailing non-numeric token after the last value of a row is
// kept as that row's orbital label. Files ending in .gz are decompressed
// on the fly. The file handle is closed before return.
func (rd *Reader) Load(fname string, kind MatrixKind) (*Matrix, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(fname), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, formatErrf(fname, "not a gzip stream: %v", err)
		}
		defer gz.Close()
		src = gz
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	nr, nc, err := rd.readHeader(fname, scanner)
	if err != nil {
		return nil, err
	}

	data := mat.NewDense(nr, nc, nil)
	labels := make([]string, nr)
	var labeled bool

	for r := 0; r < nr; r++ {
		got, label, err := rd.readRow(fname, scanner, r, nc)
		if err != nil {
			return nil, err
		}
		data.SetRow(r, got)
		if label != "" {
			labels[r] = label
			labeled = true
		}
	}

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			return nil, formatErrf(fname, "trailing data after %d declared rows", nr)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	rowKind, colKind := kind.bases()
	m := &Matrix{
		Data: data,
		Row:  Basis{Kind: rowKind},
		Col:  Basis{Kind: colKind},
	}
	if labeled {
		m.Row.Labels = labels
	}
	return m, nil
}

// readHeader skips title lines and returns the declared dimensions: the
// first line whose fields are all integers.
func (rd *Reader) readHeader(fname string, scanner *bufio.Scanner) (nr, nc int, err error) {
	for i := 0; i < maxHeaderLines && scanner.Scan(); i++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		dims, ok := allInts(fields)
		if !ok {
			continue
		}
		switch len(dims) {
		case 1:
			nr, nc = dims[0], dims[0]
		case 2:
			nr, nc = dims[0], dims[1]
		default:
			return 0, 0, formatErrf(fname, "dimension line declares %d integers, want 1 or 2", len(dims))
		}
		if nr <= 0 || nc <= 0 {
			return 0, 0, formatErrf(fname, "declared dimensions %dx%d are not positive", nr, nc)
		}
		return nr, nc, nil
	}
	return 0, 0, formatErrf(fname, "no dimension header found in the first %d lines", maxHeaderLines)
}

func allInts(fields []string) ([]int, bool) {
	ints := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		ints[i] = n
	}
	return ints, true
}

// readRow collects the nc values of row r, concatenating wrapped
// continuation lines in declared column order, and returns the row's
// trailing label if the dump carries one. A line whose whitespace fields
// are not all numeric is retried as evenly divided fixed-width columns
// before being rejected.
func (rd *Reader) readRow(fname string, scanner *bufio.Scanner, r, nc int) ([]float64, string, error) {
	vals := make([]float64, 0, nc)
	for len(vals) < nc {
		if !scanner.Scan() {
			return nil, "", formatErrf(fname, "row %d: file ends after %d of %d values", r+1, len(vals), nc)
		}
		line := scanner.Text()
		fields := rd.Tokenize(line)
		if len(fields) == 0 {
			continue
		}
		lineStart := len(vals)
		for k, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err == nil {
				vals = append(vals, v)
				continue
			}
			if vs, ok := splitGlued(tok); ok {
				vals = append(vals, vs...)
				continue
			}
			// Non-numeric after a complete row: the label column.
			if len(vals) == nc {
				return vals, strings.Join(fields[k:], " "), nil
			}
			// Short of the declared dimension: the columns may touch
			// at a fixed width instead of separating whitespace.
			vs, ok := refitFixedWidth(line, nc-lineStart)
			if !ok {
				return nil, "", formatErrf(fname, "row %d: non-numeric value %q after %d of %d values", r+1, tok, len(vals), nc)
			}
			vals = append(vals[:lineStart], vs...)
			break
		}
		if len(vals) > nc {
			return nil, "", formatErrf(fname, "row %d: found %d values, declared %d columns", r+1, len(vals), nc)
		}
	}
	return vals, "", nil
}
