// internal/pipeline/pipeline.go
package pipeline

import (
	"errors"

	"metaxsfr/internal/ranks"
	"metaxsfr/internal/report"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// Config is everything one sample run needs.
type Config struct {
	SampleID     string
	ReportPath   string
	ReportType   string
	Schema       taxon.RankSchema
	Dictionary   summary.Dictionary
	MinAbundance float64
}

// Result holds both per-sample tables.
type Result struct {
	SampleID string
	Schema   taxon.RankSchema
	Taxonomy []taxon.Frame
	Summary  []summary.Row

	// Resolved counts frames before the abundance filter.
	Resolved int
}

// Filter keeps frames at or above threshold, preserving order.
func Filter(frames []taxon.Frame, threshold float64) []taxon.Frame {
	out := make([]taxon.Frame, 0, len(frames))
	for _, f := range frames {
		if f.Percentage < threshold {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Apply builds both tables from an already decoded report.
func Apply(sampleID string, d *report.Decoded, schema taxon.RankSchema, dict summary.Dictionary, p summary.Policy, threshold float64) *Result {
	tally := summary.NewTally(dict, p)
	for _, o := range d.Observations {
		tally.Observe(o)
	}

	kept := Filter(d.Frames, threshold)
	for i := range kept {
		kept[i].SampleID = sampleID
	}
	return &Result{
		SampleID: sampleID,
		Schema:   schema,
		Taxonomy: kept,
		Summary:  tally.Rows(sampleID),
		Resolved: len(d.Frames),
	}
}

// Process decodes cfg.ReportPath and builds both tables.
func Process(cfg Config) (*Result, error) {
	if cfg.SampleID == "" {
		return nil, errors.New("pipeline: empty sample id")
	}
	if len(cfg.Schema) == 0 {
		return nil, errors.New("pipeline: empty rank schema")
	}
	f, err := report.Lookup(cfg.ReportType)
	if err != nil {
		return nil, err
	}
	d, err := report.DecodeFile(cfg.ReportPath, f.Decoder, ranks.New(cfg.Schema))
	if err != nil {
		return nil, err
	}
	return Apply(cfg.SampleID, d, cfg.Schema, cfg.Dictionary, f.Policy(), cfg.MinAbundance), nil
}
