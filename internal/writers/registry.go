// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"metaxsfr/internal/output"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// TaxonomyWriter serializes one sample's taxonomy table.
type TaxonomyWriter func(w io.Writer, frames []taxon.Frame, schema taxon.RankSchema) error

// SummaryWriter serializes one sample's summary table.
type SummaryWriter func(w io.Writer, rows []summary.Row) error

// Writer registries (format → handler). Last registration wins.
var (
	taxonomyWriters = map[string]TaxonomyWriter{}
	summaryWriters  = map[string]SummaryWriter{}
)

func init() {
	RegisterTaxonomy("tsv", output.WriteTaxonomy)
	RegisterTaxonomy("json", output.WriteTaxonomyJSON)
	RegisterSummary("tsv", output.WriteSummary)
	RegisterSummary("json", output.WriteSummaryJSON)
}

func RegisterTaxonomy(format string, fn TaxonomyWriter) { taxonomyWriters[format] = fn }
func RegisterSummary(format string, fn SummaryWriter) { summaryWriters[format] = fn }

// Formats lists formats that have both a taxonomy and a summary writer.
func Formats() []string {
	var out []string
	for f := range taxonomyWriters {
		if _, ok := summaryWriters[f]; ok {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// WriteTaxonomy dispatches on format.
func WriteTaxonomy(format string, w io.Writer, frames []taxon.Frame, schema taxon.RankSchema) error {
	fn, ok := taxonomyWriters[format]
	if !ok {
		return fmt.Errorf("unknown taxonomy format %q (no writer registered)", format)
	}
	return fn(w, frames, schema)
}

// WriteSummary dispatches on format.
func WriteSummary(format string, w io.Writer, rows []summary.Row) error {
	fn, ok := summaryWriters[format]
	if !ok {
		return fmt.Errorf("unknown summary format %q (no writer registered)", format)
	}
	return fn(w, rows)
}
