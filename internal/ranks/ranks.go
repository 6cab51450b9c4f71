// internal/ranks/ranks.go
package ranks

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"metaxsfr/internal/taxon"
)

// Normalizer decides which nodes reach the taxonomy table and how they are named.
type Normalizer struct {
	schema taxon.RankSchema
	member map[string]struct{}
}

// New returns a Normalizer gated on schema.
func New(schema taxon.RankSchema) *Normalizer {
	m := make(map[string]struct{}, len(schema))
	for _, r := range schema {
		m[r] = struct{}{}
	}
	return &Normalizer{schema: schema, member: m}
}

// Schema returns the active rank schema in column order.
func (n *Normalizer) Schema() taxon.RankSchema { return n.schema }

// Tracks reports whether rank may contribute a lineage value.
func (n *Normalizer) Tracks(rank string) bool {
	if rank == "" || rank == taxon.Unranked {
		return false
	}
	_, ok := n.member[rank]
	return ok
}

// Emits reports whether a node of this rank and depth gets its own row.
// Depth 0 is the report root and never emitted.
func (n *Normalizer) Emits(rank string, depth int) bool {
	return depth > 0 && n.Tracks(rank)
}

// DisplayName renders "<rank>_<name>" with a lower-cased rank, or the bare
// name for the unclassified rank.
func (n *Normalizer) DisplayName(rank, name string) string {
	if rank == taxon.Unclassified {
		return name
	}
	return cases.Lower(language.Und).String(rank) + "_" + name
}

// ParseList parses an ordered rank list given either as "D,K,P" or as a JSON
// array. Keys are trimmed, upper-cased and de-duplicated, keeping first order.
func ParseList(s string) (taxon.RankSchema, error) {
	s = strings.TrimSpace(s)
	var raw []string
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, taxon.Formatf(0, "rank list: %v", err)
		}
	} else {
		raw = strings.Split(s, ",")
	}

	seen := make(map[string]struct{}, len(raw))
	out := make(taxon.RankSchema, 0, len(raw))
	for _, r := range raw {
		u := strings.ToUpper(strings.TrimSpace(r))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, taxon.Formatf(0, "rank list %q holds no rank keys", s)
	}
	return out, nil
}
