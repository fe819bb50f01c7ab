// matio_test.go --  This file is part of goE2 project.
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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLoadFock(t *testing.T) {
	m, err := NewReader().Load("testfiles/fock_nao.txt", FockNAO)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, "NAO", m.Row.Kind)
	assert.Equal(t, "NAO", m.Col.Kind)
	assert.Empty(t, m.Row.Labels)
	assert.InDelta(t, -0.612, m.At(0, 0), 1e-12)
	assert.InDelta(t, 0.030, m.At(1, 2), 1e-12)
}

func TestLoadLabels(t *testing.T) {
	m, err := NewReader().Load("testfiles/clpo2lho.txt", CLPO2LHO)
	require.NoError(t, err)
	assert.Equal(t, "CLPO", m.Row.Kind)
	assert.Equal(t, "LHO", m.Col.Kind)
	require.Len(t, m.Row.Labels, 3)
	assert.Equal(t, "LP(1)O1", m.Row.Label(0))
	assert.Equal(t, "BD(1)O1-H2", m.Row.Label(1))
	assert.Equal(t, "BD*(1)O1-H2", m.Row.Label(2))
}

func TestLoadWrappedRows(t *testing.T) {
	m, err := NewReader().Load("testfiles/wrapped.txt", FockNAO)
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 4, c)
	want := mat.NewDense(2, 4, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	assert.True(t, mat.Equal(m.Data, want))
}

func TestLoadGluedValues(t *testing.T) {
	m, err := NewReader().Load("testfiles/glued.txt", SDSNAO)
	require.NoError(t, err)
	assert.InDelta(t, -0.123456, m.At(0, 0), 1e-12)
	assert.InDelta(t, -0.654321, m.At(0, 1), 1e-12)
	assert.InDelta(t, 0.25, m.At(1, 1), 1e-12)
}

func TestLoadTouchingColumns(t *testing.T) {
	// Two positive values glued at a fixed column width leave no sign
	// character to split at; the reader must recover them by re-slicing
	// the line into evenly sized fields.
	m, err := NewReader().Load("testfiles/touching.txt", FockNAO)
	require.NoError(t, err)
	assert.InDelta(t, 0.123456, m.At(0, 0), 1e-12)
	assert.InDelta(t, 78.901234, m.At(0, 1), 1e-12)
	assert.InDelta(t, 90.123456, m.At(1, 0), 1e-12)
	assert.InDelta(t, 0.654321, m.At(1, 1), 1e-12)
}

func TestRefitFixedWidth(t *testing.T) {
	vals, ok := refitFixedWidth(" 0.12345678.901234", 2)
	require.True(t, ok)
	assert.InDelta(t, 0.123456, vals[0], 1e-12)
	assert.InDelta(t, 78.901234, vals[1], 1e-12)

	_, ok = refitFixedWidth("LP(1)O1 not numbers", 2)
	assert.False(t, ok)
}

func TestLoadGzip(t *testing.T) {
	plain, err := NewReader().Load("testfiles/fock_nao.txt", FockNAO)
	require.NoError(t, err)
	zipped, err := NewReader().Load("testfiles/fock_nao.txt.gz", FockNAO)
	require.NoError(t, err)
	assert.True(t, mat.Equal(plain.Data, zipped.Data))
}

func TestLoadMalformed(t *testing.T) {
	_, err := NewReader().Load("testfiles/malformed.txt", FockNAO)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "testfiles/malformed.txt", ferr.File)
	assert.Contains(t, ferr.Error(), "2 of 3")
}

func TestLoadNoHeader(t *testing.T) {
	_, err := NewReader().Load("testfiles/noheader.txt", FockNAO)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Msg, "no dimension header")
}

func TestLoadTrailingData(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "trailing.txt")
	content := " too many rows\n 2\n 1.0 2.0\n 3.0 4.0\n 5.0 6.0\n"
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	_, err := NewReader().Load(fname, FockNAO)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Msg, "trailing data")
}

func TestLoadShortRowLabel(t *testing.T) {
	// A label may only follow a complete row.
	fname := filepath.Join(t.TempDir(), "shortrow.txt")
	content := " label too early\n 2\n 1.0 LP(1)O1\n 3.0 4.0\n"
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	_, err := NewReader().Load(fname, FockNAO)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Msg, "non-numeric")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewReader().Load("testfiles/does_not_exist.txt", FockNAO)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSplitGlued(t *testing.T) {
	tests := []struct {
		tok  string
		want []float64
		ok   bool
	}{
		{"-0.123456-0.654321", []float64{-0.123456, -0.654321}, true},
		{"1.2E-03-4.5E-02", []float64{1.2e-3, -4.5e-2}, true},
		{"0.5", []float64{0.5}, true},
		{"1.0-2.0-3.0", []float64{1.0, -2.0, -3.0}, true},
		{"LP(1)O1", nil, false},
		{"BD(1)O1-H2", nil, false},
	}
	for _, tc := range tests {
		got, ok := splitGlued(tc.tok)
		assert.Equal(t, tc.ok, ok, tc.tok)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.tok)
		}
	}
}

func TestFixedWidthTokenizer(t *testing.T) {
	tok := FixedWidth(10)
	got := tok("  0.100000-0.2000000")
	assert.Equal(t, []string{"0.100000", "-0.2000000"}, got)

	// A trailing label is kept whole, however wide the value fields are.
	got = tok("  0.100000-0.2000000 BD*(1)O1-H2")
	assert.Equal(t, []string{"0.100000", "-0.2000000", "BD*(1)O1-H2"}, got)
}

func TestLoadFixedWidthLabels(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "fixedwidth.txt")
	content := " fixed width dump\n 2\n" +
		"  0.100000-0.2000000 BD*(1)O1-H2\n" +
		"  0.300000  0.400000 LP(1)O1\n"
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))

	rd := NewReader()
	rd.Tokenize = FixedWidth(10)
	m, err := rd.Load(fname, CLPO2LHO)
	require.NoError(t, err)
	assert.InDelta(t, -0.2, m.At(0, 1), 1e-12)
	assert.InDelta(t, 0.4, m.At(1, 1), 1e-12)
	assert.Equal(t, "BD*(1)O1-H2", m.Row.Label(0))
	assert.Equal(t, "LP(1)O1", m.Row.Label(1))
}
