// Package report decodes profiler reports into taxonomy frames and summary
// observations. Each dialect is a Decoder; callers never branch on format.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shenwei356/xopen"

	"metaxsfr/internal/ranks"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// Supported report types.
const (
	TypeKraken2    = "kraken2"
	TypeBracken    = "bracken"
	TypeMetaPhlAn4 = "metaphlan4"
)

// Decoded is everything one report yields, before any abundance filtering.
type Decoded struct {
	Frames       []taxon.Frame
	Observations []taxon.Observation
}

// Decoder is one report dialect.
type Decoder interface {
	// Dialect names the line format ("indentation" or "pipe-lineage").
	Dialect() string
	// Decode reads a whole report. File-level structural problems return a
	// *taxon.FormatError; malformed single lines are skipped.
	Decode(r io.Reader, norm *ranks.Normalizer) (*Decoded, error)
	// Merge is how repeated observations of one tracked id combine.
	Merge() summary.Merge
	// KeepZero reports whether unobserved tracked ids stay in the summary.
	KeepZero() bool
}

// Format binds a report type to its dialect and dictionary exclusions.
type Format struct {
	Name    string
	Decoder Decoder
	Exclude []string
}

// Policy is the summary counting contract for this format.
func (f Format) Policy() summary.Policy {
	return summary.Policy{
		Exclude:  append([]string(nil), f.Exclude...),
		Merge:    f.Decoder.Merge(),
		KeepZero: f.Decoder.KeepZero(),
	}
}

var formats = map[string]Format{
	TypeKraken2:    {Name: TypeKraken2, Decoder: Kraken{}, Exclude: []string{summary.NotApplicable}},
	TypeBracken:    {Name: TypeBracken, Decoder: Kraken{}, Exclude: []string{summary.NotApplicable, summary.Unclassified}},
	TypeMetaPhlAn4: {Name: TypeMetaPhlAn4, Decoder: MetaPhlAn{}, Exclude: []string{summary.NotApplicable, summary.Unclassified}},
}

// Lookup returns the Format registered for a report type.
func Lookup(reportType string) (Format, error) {
	f, ok := formats[reportType]
	if !ok {
		return Format{}, fmt.Errorf("unsupported report type %q (want one of %v)", reportType, Types())
	}
	return f, nil
}

// Types lists the supported report types, sorted.
func Types() []string {
	out := make([]string, 0, len(formats))
	for k := range formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open opens path for reading; gzip, xz, zstd and bzip2 inputs are
// decompressed transparently and "-" reads stdin.
func Open(path string) (*xopen.Reader, error) {
	return xopen.Ropen(path)
}

// DecodeFile opens and decodes one report file.
func DecodeFile(path string, dec Decoder, norm *ranks.Normalizer) (*Decoded, error) {
	fh, err := Open(path)
	if errors.Is(err, xopen.ErrNoContent) {
		return nil, &taxon.FormatError{Path: path, Reason: "empty report"}
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	d, err := dec.Decode(fh, norm)
	if err != nil {
		return nil, taxon.WithPath(err, path)
	}
	return d, nil
}
