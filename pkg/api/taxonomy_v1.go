// pkg/api/taxonomy_v1.go
package api

// TaxonomyRowV1 is the stable JSON schema for one taxonomy table row.
// Lineage holds one entry per configured rank, "" when unresolved.
type TaxonomyRowV1 struct {
	Sample     string            `json:"sample"`
	Percentage float64           `json:"percentage"`
	CladeReads int64             `json:"cladeReads"`
	Name       string            `json:"name"`
	TaxRank    string            `json:"taxRank"`
	Lineage    map[string]string `json:"lineage"`
}

// SummaryRowV1 is the stable JSON schema for one sample summary row.
type SummaryRowV1 struct {
	ID         string `json:"id"`
	TaxID      string `json:"taxid"`
	Taxon      string `json:"taxon"`
	CladeReads int64  `json:"cladeReads"`
}
