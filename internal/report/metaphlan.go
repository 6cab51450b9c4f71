// internal/report/metaphlan.go
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"metaxsfr/internal/ranks"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// CommentMarker starts a header/comment line in MetaPhlAn output.
const CommentMarker = "#"

const metaphlanColumns = 5

// rankPrefixes maps clade name prefixes to rank codes. Anything else is U.
var rankPrefixes = []struct {
	prefix, rank string
}{
	{"k__", "K"}, {"p__", "P"}, {"c__", "C"}, {"o__", "O"},
	{"f__", "F"}, {"g__", "G"}, {"s__", "S"},
}

// MetaPhlAn decodes MetaPhlAn4 profiles with read statistics:
// clade_name, clade_taxid, relative_abundance, coverage, estimated_reads.
// The clade name is a pipe-delimited path, so each line carries its own lineage.
type MetaPhlAn struct{}

func (MetaPhlAn) Dialect() string { return "pipe-lineage" }
func (MetaPhlAn) Merge() summary.Merge { return summary.Max }
func (MetaPhlAn) KeepZero() bool { return false }

// splitRank returns the rank code and bare name of one clade path token.
func splitRank(tok string) (rank, name string) {
	for _, p := range rankPrefixes {
		if strings.HasPrefix(tok, p.prefix) {
			return p.rank, tok[len(p.prefix):]
		}
	}
	return taxon.Unclassified, tok
}

func (MetaPhlAn) Decode(r io.Reader, norm *ranks.Normalizer) (*Decoded, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 4<<20)

	var (
		out       Decoded
		validated bool
		ln        int
	)
	for sc.Scan() {
		ln++
		raw := sc.Text()
		if strings.HasPrefix(raw, CommentMarker) || strings.TrimSpace(raw) == "" {
			continue
		}
		f := strings.Split(strings.TrimSpace(raw), "\t")
		if !validated {
			if len(f) != metaphlanColumns {
				return nil, taxon.Formatf(ln, "invalid MetaPhlAn4 format: expected %d columns, got %d", metaphlanColumns, len(f))
			}
			validated = true
		}
		if len(f) != metaphlanColumns {
			continue
		}
		abundance, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			continue
		}
		if _, err := strconv.ParseFloat(f[3], 64); err != nil {
			continue
		}
		reads, err := strconv.ParseInt(f[4], 10, 64)
		if err != nil {
			continue
		}

		out.Observations = append(out.Observations, taxon.Observation{
			TaxIDs: strings.Split(f[1], "|"),
			Reads:  reads,
		})

		parts := strings.Split(f[0], "|")
		rank, name := splitRank(parts[len(parts)-1])
		if !norm.Tracks(rank) {
			continue
		}
		values := make(map[string]string, len(norm.Schema()))
		for _, p := range parts {
			if pr, pn := splitRank(p); pr != taxon.Unclassified && norm.Tracks(pr) {
				values[pr] = pn
			}
		}
		out.Frames = append(out.Frames, taxon.Frame{
			Percentage:  abundance,
			CladeReads:  reads,
			DisplayName: norm.DisplayName(rank, name),
			Rank:        rank,
			RankValues:  values,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !validated {
		return nil, taxon.Formatf(0, "no valid data lines found")
	}
	return &out, nil
}
