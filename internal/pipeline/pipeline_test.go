package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaxsfr/internal/report"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

const krakenReport = "" +
	" 10.00\t100\t100\tU\t0\tunclassified\n" +
	" 90.00\t900\t0\tR\t1\troot\n" +
	" 60.00\t120\t0\tD\t2\t  Bacteria\n" +
	" 40.00\t80\t0\tP\t1239\t    Firmicutes\n" +
	"  0.20\t2\t2\tS\t1423\t      Bacillus subtilis\n" +
	" 30.00\t60\t60\tD\t2759\t  Eukaryota\n"

const mpaReport = "" +
	"#header\n" +
	"k__Bacteria\t2\t100.0\t1.0\t500\n" +
	"k__Bacteria|p__Firmicutes\t2|1239\t60.0\t1.0\t300\n" +
	"k__Bacteria|p__Firmicutes|s__Tiny\t2|1239|99\t0.01\t1.0\t800\n"

func writeReport(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestSummaryKeepsZeroCounts(t *testing.T) {
	dict, err := summary.ParseDictionary(`{"bacterial":"2","viral":"10239"}`)
	require.NoError(t, err)

	res, err := Process(Config{
		SampleID:   "s1",
		ReportPath: writeReport(t, krakenReport),
		ReportType: report.TypeKraken2,
		Schema:     taxon.RankSchema{"D", "P", "S"},
		Dictionary: dict,
	})
	require.NoError(t, err)
	assert.Equal(t, []summary.Row{
		{SampleID: "s1", TaxID: "2", Taxon: "bacterial", CladeReads: 120},
		{SampleID: "s1", TaxID: "10239", Taxon: "viral", CladeReads: 0},
	}, res.Summary)
}

func TestSummaryIsThresholdInvariant(t *testing.T) {
	dict := summary.Dictionary{{Label: "bacterial", ID: "2"}, {Label: "firmicutes", ID: "1239"}, {Label: "species", ID: "99"}}
	cases := []struct {
		typ, body string
	}{
		{report.TypeKraken2, krakenReport},
		{report.TypeBracken, krakenReport},
		{report.TypeMetaPhlAn4, mpaReport},
	}
	for _, c := range cases {
		path := writeReport(t, c.body)
		run := func(th float64) *Result {
			res, err := Process(Config{
				SampleID: "s", ReportPath: path, ReportType: c.typ,
				Schema: taxon.RankSchema{"K", "D", "P", "S"}, Dictionary: dict, MinAbundance: th,
			})
			require.NoError(t, err, c.typ)
			return res
		}
		lo, hi := run(0), run(50)
		if diff := cmp.Diff(lo.Summary, hi.Summary); diff != "" {
			t.Errorf("%s: summary changed with threshold (-0 +50):\n%s", c.typ, diff)
		}
		assert.Greater(t, len(lo.Taxonomy), len(hi.Taxonomy), c.typ)
	}
}

func TestMetaPhlAnSummaryUsesMaxAndDropsZero(t *testing.T) {
	dict := summary.Dictionary{{Label: "bacterial", ID: "2"}, {Label: "viral", ID: "10239"}}
	res, err := Process(Config{
		SampleID: "m", ReportPath: writeReport(t, mpaReport), ReportType: report.TypeMetaPhlAn4,
		Schema: taxon.RankSchema{"P"}, Dictionary: dict, MinAbundance: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []summary.Row{{SampleID: "m", TaxID: "2", Taxon: "bacterial", CladeReads: 800}}, res.Summary)
}

func TestFilterAndSampleStamp(t *testing.T) {
	res, err := Process(Config{
		SampleID: "s9", ReportPath: writeReport(t, krakenReport), ReportType: report.TypeKraken2,
		Schema: taxon.RankSchema{"D", "P", "S"}, MinAbundance: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Resolved)
	require.Len(t, res.Taxonomy, 3)
	for _, f := range res.Taxonomy {
		assert.Equal(t, "s9", f.SampleID)
		assert.GreaterOrEqual(t, f.Percentage, 1.0)
	}
}

func TestFilterBoundary(t *testing.T) {
	frames := []taxon.Frame{{Percentage: 0.01}, {Percentage: 0.009}, {Percentage: 5}}
	assert.Len(t, Filter(frames, 0.01), 2, "threshold itself is kept")
	assert.Len(t, Filter(frames, 0), 3)
}

func TestProcessErrors(t *testing.T) {
	_, err := Process(Config{ReportType: report.TypeKraken2, Schema: taxon.RankSchema{"P"}})
	assert.Error(t, err)
	_, err = Process(Config{SampleID: "x", ReportType: "nope", Schema: taxon.RankSchema{"P"}})
	assert.Error(t, err)
	_, err = Process(Config{SampleID: "x", ReportType: report.TypeKraken2, ReportPath: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
