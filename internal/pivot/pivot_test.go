package pivot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaxsfr/internal/taxon"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestCompileFillsMissingTaxa(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.tsv", "id\ttaxid\ttaxon\tcladeReads\ns1\t1\tA\t10\ns1\t2\tB\t20\n")
	b := write(t, dir, "b.tsv", "id\ttaxid\ttaxon\tcladeReads\ns2\t2\tB\t5\ns2\t3\tC\t7\n")

	m, err := Compile([]string{a, b})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, m.WriteTSV(&out))
	assert.Equal(t, "id\tA\tB\tC\ns1\t10\t20\t0\ns2\t0\t5\t7\n", out.String())
}

func TestCompileOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.tsv", "id\ttaxid\ttaxon\tcladeReads\ns1\t9606\thuman\t3\ns1\t2\tbacterial\t40\n")
	b := write(t, dir, "b.tsv", "id\ttaxid\ttaxon\tcladeReads\ns2\t10239\tviral\t8\n")

	ab, err := Compile([]string{a, b})
	require.NoError(t, err)
	ba, err := Compile([]string{b, a})
	require.NoError(t, err)

	if diff := cmp.Diff(ab.Header(), ba.Header()); diff != "" {
		t.Fatalf("header differs (-ab +ba):\n%s", diff)
	}
	set := func(m *Matrix) map[string][]string {
		out := map[string][]string{}
		for _, r := range m.Rows()[1:] {
			out[r[0]] = r[1:]
		}
		return out
	}
	if diff := cmp.Diff(set(ab), set(ba)); diff != "" {
		t.Fatalf("values differ (-ab +ba):\n%s", diff)
	}
	assert.True(t, sort.StringsAreSorted(ab.Taxa))
}

func TestCompileEmptyInput(t *testing.T) {
	_, err := Compile(nil)
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestCompileHeaderOnlyAndMissingHeader(t *testing.T) {
	dir := t.TempDir()
	h := write(t, dir, "h.tsv", "id\ttaxid\ttaxon\tcladeReads\n")
	m, err := Compile([]string{h})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id"}}, m.Rows())

	empty := write(t, dir, "empty.tsv", "")
	_, err = Compile([]string{h, empty})
	assert.True(t, errors.Is(err, taxon.ErrFormat), "%v", err)
}

func TestCompileTrustsFirstHeader(t *testing.T) {
	// The second file names its columns differently; its rows are still
	// read positionally through the first header.
	dir := t.TempDir()
	a := write(t, dir, "a.tsv", "id\ttaxid\ttaxon\tcladeReads\ns1\t2\tbacterial\t1\n")
	b := write(t, dir, "b.tsv", "sample\tid\tlabel\treads\ns2\t2\tbacterial\t9\n")
	m, err := Compile([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, m.Samples)
	assert.Equal(t, "9", m.Value("s2", "bacterial"))
}

func TestBuildSkipsShortRows(t *testing.T) {
	m := Build([]Row{{"id": "s1"}, {"id": "s1", "taxon": "A", "cladeReads": "4"}})
	assert.Equal(t, []string{"A"}, m.Taxa)
	assert.Equal(t, "4", m.Value("s1", "A"))
	assert.Equal(t, Fill, m.Value("s1", "B"))
}

func TestConcatTables(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.tsv", "sample\tname\ns1\tp_X\n")
	b := write(t, dir, "b.tsv", "sample\tname\ns2\tp_Y")
	var out bytes.Buffer
	require.NoError(t, ConcatTables(&out, []string{a, b}))
	assert.Equal(t, "sample\tname\ns1\tp_X\ns2\tp_Y\n", out.String())

	assert.ErrorIs(t, ConcatTables(&out, nil), ErrEmptyInput)
}
