package output

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		100:     "100.0",
		0:       "0.0",
		12.5:    "12.5",
		0.01:    "0.01",
		0.0001:  "0.0001",
		0.00001: "1e-05",
		-3:      "-3.0",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatFloat(in), "%v", in)
	}
}

func TestWriteTaxonomy(t *testing.T) {
	schema := taxon.RankSchema{"D", "P"}
	frames := []taxon.Frame{
		{SampleID: "s1", Percentage: 60, CladeReads: 120, DisplayName: "d_Bacteria", Rank: "D", RankValues: map[string]string{"D": "Bacteria"}},
		{SampleID: "s1", Percentage: 12.25, CladeReads: 80, DisplayName: "p_Firmicutes", Rank: "P", RankValues: map[string]string{"D": "Bacteria", "P": "Firmicutes"}},
	}
	var b bytes.Buffer
	require.NoError(t, WriteTaxonomy(&b, frames, schema))
	assert.Equal(t, ""+
		"sample\tpercentage\tcladeReads\tname\ttaxRank\tD\tP\n"+
		"s1\t60.0\t120\td_Bacteria\tD\tBacteria\t\n"+
		"s1\t12.25\t80\tp_Firmicutes\tP\tBacteria\tFirmicutes\n", b.String())
}

func TestWriteSummary(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteSummary(&b, []summary.Row{{SampleID: "s1", TaxID: "2", Taxon: "bacterial", CladeReads: 120}}))
	assert.Equal(t, "id\ttaxid\ttaxon\tcladeReads\ns1\t2\tbacterial\t120\n", b.String())
}

func TestWriteTaxonomyJSON(t *testing.T) {
	var b bytes.Buffer
	f := taxon.Frame{SampleID: "s", Percentage: 1, DisplayName: "p_X", Rank: "P", RankValues: map[string]string{"P": "X"}}
	require.NoError(t, WriteTaxonomyJSON(&b, []taxon.Frame{f}, taxon.RankSchema{"K", "P"}))
	assert.Contains(t, b.String(), `"taxRank": "P"`)
	assert.Contains(t, b.String(), `"K": ""`)
}

func TestWriteFileGzip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.tsv.gz")
	require.NoError(t, WriteFile(p, func(w io.Writer) error {
		_, err := io.WriteString(w, "a\tb\n")
		return err
	}))

	fh, err := os.Open(p)
	require.NoError(t, err)
	defer fh.Close()
	zr, err := gzip.NewReader(fh)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n", string(got))
}
