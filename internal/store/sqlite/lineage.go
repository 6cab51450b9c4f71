package sqlite

import (
	"metaxsfr/internal/jsonutil"
	"metaxsfr/internal/taxon"
)

// lineageJSON renders lineage values as an ordered JSON object following schema.
func lineageJSON(values map[string]string, schema taxon.RankSchema) (string, error) {
	type kv struct {
		Rank  string `json:"rank"`
		Value string `json:"value"`
	}
	out := make([]kv, 0, len(schema))
	for _, r := range schema {
		out = append(out, kv{Rank: r, Value: values[r]})
	}
	b, err := jsonutil.MarshalRaw(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
