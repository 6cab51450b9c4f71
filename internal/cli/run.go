// internal/cli/run.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"math"

	"metaxsfr/internal/cliutil"
	"metaxsfr/internal/report"
)

// RunOptions configures the end-to-end batch driver.
type RunOptions struct {
	Reports         []string
	ReportType      string
	Database        string
	Output          string
	MinAbundance    float64 // NaN means "use the configured default"
	Jobs            int
	Template        string
	Params          string
	PipelineVersion string
	SaveJSON        bool
	Archive         string
	Config          string

	Log LogFlags
	common
}

// ParseRun registers and parses run flags. Reports may be positionals,
// --reports comma lists, or quoted globs.
func ParseRun(fs *flag.FlagSet, argv []string) (RunOptions, error) {
	var o RunOptions
	o.common.register(fs)
	o.Log.register(fs)

	var reps stringSlice
	fs.Var(&reps, "reports", "report files (repeatable, comma list or glob) [*]")
	fs.StringVar(&o.ReportType, "report-type", "", fmt.Sprintf("report type: %v [*]", report.Types()))
	fs.StringVar(&o.Database, "database", "", "reference database preset [*]")
	fs.StringVar(&o.Output, "output", "results", "output directory [results]")
	fs.Float64Var(&o.MinAbundance, "min-abundance", math.NaN(), "minimum percentage for taxonomy tables [config, 0.01]")
	fs.IntVar(&o.Jobs, "jobs", 0, "reports processed concurrently (0 = all CPUs) [0]")
	fs.StringVar(&o.Template, "template", "", "HTML report template (skip report generation when empty)")
	fs.StringVar(&o.Params, "params", "", "run parameters JSON embedded in the report")
	fs.StringVar(&o.PipelineVersion, "pipeline-version", "", "pipeline version recorded in the report [build version]")
	fs.BoolVar(&o.SaveJSON, "save-json", false, "also write the report payload as JSON [false]")
	fs.StringVar(&o.Archive, "archive", "", "SQLite archive to record this run in")
	fs.StringVar(&o.Config, "config", "", "YAML config overriding database presets")

	flagArgs, pos := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := parse(fs, flagArgs, &o.common); err != nil || o.Version {
		return o, err
	}
	pos = append(pos, fs.Args()...)

	var err error
	if o.Reports, err = cliutil.ExpandList(append([]string(reps), pos...)); err != nil {
		return o, err
	}
	switch {
	case len(o.Reports) == 0:
		return o, errors.New("at least one report is required")
	case o.ReportType == "":
		return o, errors.New("--report-type is required")
	case o.Database == "":
		return o, errors.New("--database is required")
	case o.Jobs < 0:
		return o, errors.New("--jobs must be ≥ 0")
	}
	if _, err := report.Lookup(o.ReportType); err != nil {
		return o, err
	}
	if !math.IsNaN(o.MinAbundance) && o.MinAbundance < 0 {
		return o, errors.New("--min-abundance must be ≥ 0")
	}
	return o, nil
}
