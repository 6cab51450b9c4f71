// pkg/api/report_v1.go
package api

// ReportV1 is the payload spliced into the report template. Field order is
// part of the contract: the template locates the literal by its leading
// "startIdx" and trailing "endIdx" keys.
type ReportV1 struct {
	StartIdx       string         `json:"startIdx"`
	LogData        map[string]any `json:"logData"`
	SampleSummary  string         `json:"sampleSummary"`  // flattened TSV or "NA"
	SampleTaxonomy string         `json:"sampleTaxonomy"` // flattened TSV or "NA"
	EndIdx         string         `json:"endIdx"`
}
