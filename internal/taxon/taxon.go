// internal/taxon/taxon.go
package taxon

// Rank codes with special meaning in profiler reports.
const (
	Unranked     = "-" // kraken-style node without a rank
	Unclassified = "U" // displayed without a rank prefix
)

// Record is one decoded row of an indentation-dialect report.
// It only lives long enough for the lineage resolver to consume it.
type Record struct {
	Rank       string
	TaxID      string
	Name       string
	Depth      int
	Percentage float64
	CladeReads int64
	TaxonReads int64
}

// Frame is a resolved, emit-ready taxonomy row. RankValues never holds the root.
type Frame struct {
	SampleID    string
	Percentage  float64
	CladeReads  int64
	DisplayName string
	Rank        string
	RankValues  map[string]string
}

// Value returns the lineage name recorded for rank, or "".
func (f Frame) Value(rank string) string { return f.RankValues[rank] }

// Observation is one count-bearing line as seen by the summary path.
// TaxIDs holds more than one id when the report line carries a compound id.
type Observation struct {
	TaxIDs []string
	Reads  int64
}

// RankSchema is the ordered set of canonical rank keys for one reference database.
type RankSchema []string

// Contains reports whether rank is a member of the schema.
func (s RankSchema) Contains(rank string) bool {
	for _, r := range s {
		if r == rank {
			return true
		}
	}
	return false
}
