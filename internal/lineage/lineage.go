// Package lineage rebuilds ancestry for depth-indented reports, where each
// row carries only its depth and the parent is the nearest shallower row above it.
package lineage

import (
	"slices"

	"metaxsfr/internal/ranks"
	"metaxsfr/internal/taxon"
)

// Ancestors returns the ancestor chain of records[i], root first. Walking
// backward, it keeps the nearest record at each strictly smaller depth and
// stops once depth 0 is reached.
func Ancestors(records []taxon.Record, i int) []taxon.Record {
	if i < 0 || i >= len(records) {
		return nil
	}
	depth := records[i].Depth
	var chain []taxon.Record
	for j := i - 1; j >= 0 && depth > 0; j-- {
		if records[j].Depth < depth {
			chain = append(chain, records[j])
			depth = records[j].Depth
		}
	}
	slices.Reverse(chain)
	return chain
}

// Resolve builds the frame for records[i]. ok is false when the normalizer
// does not emit the node. Unranked ancestors are walked through but leave
// no value; the root never contributes one.
func Resolve(records []taxon.Record, i int, norm *ranks.Normalizer) (f taxon.Frame, ok bool) {
	node := records[i]
	if !norm.Emits(node.Rank, node.Depth) {
		return taxon.Frame{}, false
	}

	values := make(map[string]string, len(norm.Schema()))
	for _, a := range Ancestors(records, i) {
		if a.Depth > 0 && norm.Tracks(a.Rank) {
			values[a.Rank] = a.Name
		}
	}
	values[node.Rank] = node.Name

	return taxon.Frame{
		Percentage:  node.Percentage,
		CladeReads:  node.CladeReads,
		DisplayName: norm.DisplayName(node.Rank, node.Name),
		Rank:        node.Rank,
		RankValues:  values,
	}, true
}

// ResolveAll resolves every emitted record in report order.
func ResolveAll(records []taxon.Record, norm *ranks.Normalizer) []taxon.Frame {
	var out []taxon.Frame
	for i := range records {
		if f, ok := Resolve(records, i, norm); ok {
			out = append(out, f)
		}
	}
	return out
}
