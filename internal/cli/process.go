// internal/cli/process.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"slices"

	"metaxsfr/internal/report"
	"metaxsfr/internal/writers"
)

// ProcessOptions configures process-report.
type ProcessOptions struct {
	SampleID    string
	Report      string
	ReportType  string
	Database    string
	TaxidMap    string  // JSON object; overrides the database preset
	Ranks       string  // comma list or JSON array; overrides the database preset
	MinPercent  float64 // NaN means "use the configured default"
	OutSummary  string
	OutTaxonomy string
	Format      string
	Config      string

	Log LogFlags
	common
}

// ParseProcess registers and parses process-report flags.
func ParseProcess(fs *flag.FlagSet, argv []string) (ProcessOptions, error) {
	var o ProcessOptions
	o.common.register(fs)
	o.Log.register(fs)

	fs.StringVar(&o.SampleID, "input-id", "", "sample id written to every output row [*]")
	fs.StringVar(&o.Report, "input-report", "", "profiler report (gzip/xz/zstd accepted) [*]")
	fs.StringVar(&o.ReportType, "report-type", "", fmt.Sprintf("report type: %v [*]", report.Types()))
	fs.StringVar(&o.Database, "database", "ncbi", "reference database preset [ncbi]")
	fs.StringVar(&o.TaxidMap, "taxids-map", "", "JSON object taxon label -> taxid (overrides preset)")
	fs.StringVar(&o.Ranks, "taxranks", "", "ordered rank keys, comma list or JSON array (overrides preset)")
	fs.Float64Var(&o.MinPercent, "min-percent", math.NaN(), "minimum percentage for the taxonomy table [config, 0.01]")
	fs.StringVar(&o.OutSummary, "out-summary", "", "sample summary output path [*]")
	fs.StringVar(&o.OutTaxonomy, "out-taxonomy", "", "taxonomy table output path [*]")
	fs.StringVar(&o.Format, "format", "tsv", fmt.Sprintf("output format: %v [tsv]", writers.Formats()))
	fs.StringVar(&o.Config, "config", "", "YAML config overriding database presets")

	if err := parse(fs, argv, &o.common); err != nil || o.Version {
		return o, err
	}

	switch {
	case o.SampleID == "":
		return o, errors.New("--input-id is required")
	case o.Report == "":
		return o, errors.New("--input-report is required")
	case o.ReportType == "":
		return o, errors.New("--report-type is required")
	case o.OutSummary == "" || o.OutTaxonomy == "":
		return o, errors.New("--out-summary and --out-taxonomy are required")
	}
	if _, err := report.Lookup(o.ReportType); err != nil {
		return o, err
	}
	if !slices.Contains(writers.Formats(), o.Format) {
		return o, fmt.Errorf("unknown --format %q", o.Format)
	}
	if !math.IsNaN(o.MinPercent) && o.MinPercent < 0 {
		return o, errors.New("--min-percent must be ≥ 0")
	}
	return o, nil
}
