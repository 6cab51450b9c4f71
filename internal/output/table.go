// internal/output/table.go
package output

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// TaxonomyFixedColumns precede one column per configured rank.
var TaxonomyFixedColumns = []string{"sample", "percentage", "cladeReads", "name", "taxRank"}

// TaxonomyHeader returns the taxonomy table header for schema.
func TaxonomyHeader(schema taxon.RankSchema) []string {
	h := make([]string, 0, len(TaxonomyFixedColumns)+len(schema))
	h = append(h, TaxonomyFixedColumns...)
	return append(h, schema...)
}

// TaxonomyRecord renders one frame in header order.
func TaxonomyRecord(f taxon.Frame, schema taxon.RankSchema) []string {
	rec := make([]string, 0, len(TaxonomyFixedColumns)+len(schema))
	rec = append(rec,
		f.SampleID,
		FormatFloat(f.Percentage),
		strconv.FormatInt(f.CladeReads, 10),
		f.DisplayName,
		f.Rank,
	)
	for _, r := range schema {
		rec = append(rec, f.Value(r))
	}
	return rec
}

// FormatFloat renders v the way the report front-end expects: shortest
// round-trip digits, a trailing ".0" on integral values, and exponent form
// only for very small or very large magnitudes.
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if v != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func newTSV(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

// WriteTaxonomy writes the taxonomy table as TSV.
func WriteTaxonomy(w io.Writer, frames []taxon.Frame, schema taxon.RankSchema) error {
	cw := newTSV(w)
	if err := cw.Write(TaxonomyHeader(schema)); err != nil {
		return err
	}
	for _, f := range frames {
		if err := cw.Write(TaxonomyRecord(f, schema)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the sample summary table as TSV.
func WriteSummary(w io.Writer, rows []summary.Row) error {
	cw := newTSV(w)
	if err := cw.Write(summary.Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.SampleID, r.TaxID, r.Taxon, strconv.FormatInt(r.CladeReads, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRows writes pre-rendered rows (header first) as TSV.
func WriteRows(w io.Writer, rows [][]string) error {
	return newTSV(w).WriteAll(rows)
}
