// internal/output/json.go
package output

import (
	"io"

	"metaxsfr/internal/jsonutil"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
	"metaxsfr/pkg/api"
)

// ToAPITaxonomy converts a frame to the stable wire schema (v1).
func ToAPITaxonomy(f taxon.Frame, schema taxon.RankSchema) api.TaxonomyRowV1 {
	lin := make(map[string]string, len(schema))
	for _, r := range schema {
		lin[r] = f.Value(r)
	}
	return api.TaxonomyRowV1{
		Sample:     f.SampleID,
		Percentage: f.Percentage,
		CladeReads: f.CladeReads,
		Name:       f.DisplayName,
		TaxRank:    f.Rank,
		Lineage:    lin,
	}
}

// WriteTaxonomyJSON writes a JSON array of v1 taxonomy rows.
func WriteTaxonomyJSON(w io.Writer, frames []taxon.Frame, schema taxon.RankSchema) error {
	out := make([]api.TaxonomyRowV1, 0, len(frames))
	for _, f := range frames {
		out = append(out, ToAPITaxonomy(f, schema))
	}
	return jsonutil.EncodePretty(w, out)
}

// WriteSummaryJSON writes a JSON array of v1 summary rows.
func WriteSummaryJSON(w io.Writer, rows []summary.Row) error {
	out := make([]api.SummaryRowV1, 0, len(rows))
	for _, r := range rows {
		out = append(out, api.SummaryRowV1{ID: r.SampleID, TaxID: r.TaxID, Taxon: r.Taxon, CladeReads: r.CladeReads})
	}
	return jsonutil.EncodePretty(w, out)
}
