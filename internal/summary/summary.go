// internal/summary/summary.go
package summary

import (
	"metaxsfr/internal/taxon"
)

// Merge selects how repeated observations of one tracked id combine.
type Merge int

const (
	// Overwrite keeps the last observed count.
	Overwrite Merge = iota
	// Max keeps the largest observed count.
	Max
)

// Policy is the per-report-type counting contract.
type Policy struct {
	Exclude  []string // dictionary ids never tracked
	Merge    Merge
	KeepZero bool // emit tracked ids that were never observed
}

func (p Policy) excluded(id string) bool {
	for _, x := range p.Exclude {
		if x == id {
			return true
		}
	}
	return false
}

// Row is one line of a sample summary table.
type Row struct {
	SampleID   string
	TaxID      string
	Taxon      string
	CladeReads int64
}

// Header is the sample summary column order.
var Header = []string{"id", "taxid", "taxon", "cladeReads"}

// Tally accumulates read counts for the dictionary's tracked ids only.
type Tally struct {
	policy Policy
	order  []string
	labels map[string]string
	reads  map[string]int64
}

// NewTally seeds every tracked id with zero. When two labels share an id,
// the id keeps its first position and takes the later label.
func NewTally(dict Dictionary, p Policy) *Tally {
	t := &Tally{
		policy: p,
		labels: make(map[string]string, len(dict)),
		reads:  make(map[string]int64, len(dict)),
	}
	for _, e := range dict {
		if p.excluded(e.ID) {
			continue
		}
		if _, seen := t.labels[e.ID]; !seen {
			t.order = append(t.order, e.ID)
			t.reads[e.ID] = 0
		}
		t.labels[e.ID] = e.Label
	}
	return t
}

// Observe folds one report line into the tally. Untracked ids are ignored.
func (t *Tally) Observe(obs taxon.Observation) {
	for _, id := range obs.TaxIDs {
		cur, ok := t.reads[id]
		if !ok {
			continue
		}
		switch t.policy.Merge {
		case Max:
			if obs.Reads > cur {
				t.reads[id] = obs.Reads
			}
		default:
			t.reads[id] = obs.Reads
		}
	}
}

// Tracked lists tracked ids in dictionary order.
func (t *Tally) Tracked() []string { return append([]string(nil), t.order...) }

// Rows renders the tally for sampleID in dictionary order.
func (t *Tally) Rows(sampleID string) []Row {
	out := make([]Row, 0, len(t.order))
	for _, id := range t.order {
		n := t.reads[id]
		if n == 0 && !t.policy.KeepZero {
			continue
		}
		out = append(out, Row{SampleID: sampleID, TaxID: id, Taxon: t.labels[id], CladeReads: n})
	}
	return out
}
