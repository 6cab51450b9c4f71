package cli

import (
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseProcessOK(t *testing.T) {
	o, err := ParseProcess(newFS(), []string{
		"--input-id", "S1", "--input-report", "s1.txt", "--report-type", "bracken",
		"--out-summary", "s.tsv", "--out-taxonomy", "t.tsv", "--min-percent", "0.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "S1", o.SampleID)
	assert.Equal(t, "ncbi", o.Database)
	assert.Equal(t, "tsv", o.Format)
	assert.Equal(t, 0.5, o.MinPercent)
}

func TestParseProcessDefaultsThresholdToNaN(t *testing.T) {
	o, err := ParseProcess(newFS(), []string{
		"--input-id", "S1", "--input-report", "s1.txt", "--report-type", "kraken2",
		"--out-summary", "s.tsv", "--out-taxonomy", "t.tsv",
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(o.MinPercent))
}

func TestParseProcessErrors(t *testing.T) {
	base := []string{"--input-id", "S1", "--input-report", "r", "--out-summary", "s", "--out-taxonomy", "t"}
	cases := map[string][]string{
		"missing type":  base,
		"bad type":      append(append([]string{}, base...), "--report-type", "centrifuge"),
		"bad format":    append(append([]string{}, base...), "--report-type", "kraken2", "--format", "xml"),
		"negative":      append(append([]string{}, base...), "--report-type", "kraken2", "--min-percent", "-1"),
		"missing input": {"--input-id", "S1", "--report-type", "kraken2"},
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProcess(newFS(), argv)
			assert.Error(t, err)
		})
	}
}

func TestParseHelpAndVersion(t *testing.T) {
	_, err := ParseProcess(newFS(), []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)

	o, err := ParseGenerate(newFS(), []string{"--version"})
	require.NoError(t, err)
	assert.True(t, o.Version)
}

func TestParseCompileGlobsAndPositionals(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.summary.tsv", "b.summary.tsv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	o, err := ParseCompile(newFS(), []string{
		"--out", "all.tsv", filepath.Join(dir, "*.summary.tsv"), "--summaries", "x.tsv,y.tsv",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"x.tsv", "y.tsv",
		filepath.Join(dir, "a.summary.tsv"), filepath.Join(dir, "b.summary.tsv"),
	}, o.Summaries)
	assert.Empty(t, o.Taxonomies)

	_, err = ParseCompile(newFS(), []string{"--out", "all.tsv", "--taxonomies", "t.tsv", "a.tsv"})
	assert.Error(t, err)
}

func TestParseGenerateRequires(t *testing.T) {
	_, err := ParseGenerate(newFS(), []string{"--template", "t.html", "--out-html", "o.html"})
	assert.Error(t, err)

	o, err := ParseGenerate(newFS(), []string{"--template", "t.html", "--out-html", "o.html", "--summary-table", "s.tsv"})
	require.NoError(t, err)
	assert.Empty(t, o.StartMarker)
}

func TestParseRun(t *testing.T) {
	o, err := ParseRun(newFS(), []string{
		"--report-type", "metaphlan4", "--database", "gtdb", "--jobs", "2", "--save-json", "a.txt", "b.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, o.Reports)
	assert.Equal(t, "results", o.Output)
	assert.True(t, o.SaveJSON)

	_, err = ParseRun(newFS(), []string{"--report-type", "kraken2", "--database", "ncbi"})
	assert.Error(t, err)
}
