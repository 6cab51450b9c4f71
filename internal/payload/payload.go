// internal/payload/payload.go
package payload

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"metaxsfr/pkg/api"
)

// NA stands in for a table that was not supplied or could not be read.
const NA = "NA"

// Default markers bounding the embedded literal.
const (
	DefaultStartMarker = "@@METAXSFR@@INPUT@@START@@"
	DefaultEndMarker   = "@@METAXSFR@@INPUT@@END@@"
)

var (
	flattener   = strings.NewReplacer("\t", ";t", "\n", ";n")
	unflattener = strings.NewReplacer(";t", "\t", ";n", "\n")
)

// Flatten escapes tabs and newlines so a whole TSV fits in one JSON string.
func Flatten(content string) string { return flattener.Replace(content) }

// Unflatten reverses Flatten.
func Unflatten(s string) string { return unflattener.Replace(s) }

// FlattenFile reads path and flattens it.
func FlattenFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Flatten(string(b)), nil
}

// Params keys handled specially.
const (
	KeyReportDB        = "report_db"
	KeyReports         = "reports"
	KeyPipelineVersion = "pipeline_version"
	KeyCreated         = "created"
	KeyRunID           = "run_id"
)

// dbSpecific lists, per database, the keys that belong to the other database.
var dbSpecific = map[string][]string{
	"ncbi": {"taxid_gtdb", "taxrank_gtdb"},
	"gtdb": {"taxid_ncbi", "taxrank_ncbi"},
}

// LoadParams reads a run-parameters JSON object.
func LoadParams(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// PruneParams returns a copy of params without keys that belong to the
// database not selected by report_db, and with the reports path cut to its
// last two segments.
func PruneParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	if p, ok := out[KeyReports].(string); ok && p != "" {
		if parts := strings.Split(p, "/"); len(parts) > 1 {
			out[KeyReports] = "/" + strings.Join(parts[len(parts)-2:], "/")
		}
	}
	if db, ok := out[KeyReportDB].(string); ok {
		for _, k := range dbSpecific[strings.ToLower(db)] {
			delete(out, k)
		}
	}
	return out
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a ULID stamped with t.
func NewRunID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Inputs describes one report payload.
type Inputs struct {
	SummaryTable    string // wide matrix TSV, optional
	TaxonomyTable   string // taxonomy TSV, optional
	ParamsFile      string // run parameters JSON, optional
	PipelineVersion string
	StartMarker     string
	EndMarker       string
	RunID           string // generated from Now when empty
	Now             func() time.Time
}

// Build assembles the payload. Unreadable inputs degrade to "NA" or empty
// params and are reported as warnings rather than errors.
func Build(in Inputs) (*api.ReportV1, []string) {
	var warns []string
	table := func(path string) string {
		if path == "" {
			return NA
		}
		s, err := FlattenFile(path)
		if err != nil {
			warns = append(warns, fmt.Sprintf("could not read table %s: %v", path, err))
			return NA
		}
		return s
	}

	params := map[string]any{}
	if in.ParamsFile != "" {
		p, err := LoadParams(in.ParamsFile)
		if err != nil {
			warns = append(warns, fmt.Sprintf("could not read params file: %v", err))
		} else {
			params = PruneParams(p)
		}
	}

	now := time.Now
	if in.Now != nil {
		now = in.Now
	}
	ts := now()
	params[KeyPipelineVersion] = in.PipelineVersion
	params[KeyCreated] = ts.Format(time.RFC3339)
	id := in.RunID
	if id == "" {
		id = NewRunID(ts)
	}
	params[KeyRunID] = id

	start, end := in.StartMarker, in.EndMarker
	if start == "" {
		start = DefaultStartMarker
	}
	if end == "" {
		end = DefaultEndMarker
	}
	return &api.ReportV1{
		StartIdx:       start,
		LogData:        params,
		SampleSummary:  table(in.SummaryTable),
		SampleTaxonomy: table(in.TaxonomyTable),
		EndIdx:         end,
	}, warns
}
