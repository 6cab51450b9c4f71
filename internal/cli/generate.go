// internal/cli/generate.go
package cli

import (
	"errors"
	"flag"
)

// GenerateOptions configures generate-report.
type GenerateOptions struct {
	SummaryTable    string
	TaxonomyTable   string
	Template        string
	OutHTML         string
	SaveJSON        string
	Params          string
	PipelineVersion string
	StartMarker     string
	EndMarker       string
	Config          string

	Log LogFlags
	common
}

// ParseGenerate registers and parses generate-report flags.
func ParseGenerate(fs *flag.FlagSet, argv []string) (GenerateOptions, error) {
	var o GenerateOptions
	o.common.register(fs)
	o.Log.register(fs)

	fs.StringVar(&o.SummaryTable, "summary-table", "", "compiled summary TSV [*]")
	fs.StringVar(&o.TaxonomyTable, "taxonomy-table", "", "taxonomy TSV [*]")
	fs.StringVar(&o.Template, "template", "", "HTML report template [*]")
	fs.StringVar(&o.OutHTML, "out-html", "", "report output path [*]")
	fs.StringVar(&o.SaveJSON, "save-json", "", "also write the payload as indented JSON to this path")
	fs.StringVar(&o.Params, "params", "", "run parameters JSON")
	fs.StringVar(&o.PipelineVersion, "pipeline-version", "", "pipeline version recorded in the report [build version]")
	fs.StringVar(&o.StartMarker, "start-marker", "", "template start marker [config]")
	fs.StringVar(&o.EndMarker, "end-marker", "", "template end marker [config]")
	fs.StringVar(&o.Config, "config", "", "YAML config overriding markers")

	if err := parse(fs, argv, &o.common); err != nil || o.Version {
		return o, err
	}
	switch {
	case o.Template == "":
		return o, errors.New("--template is required")
	case o.OutHTML == "":
		return o, errors.New("--out-html is required")
	case o.SummaryTable == "" && o.TaxonomyTable == "":
		return o, errors.New("provide --summary-table and/or --taxonomy-table")
	}
	return o, nil
}
