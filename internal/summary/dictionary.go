// internal/summary/dictionary.go
package summary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"metaxsfr/internal/taxon"
)

// Sentinel dictionary ids.
const (
	NotApplicable = "NA" // taxon has no id in this database
	Unclassified  = "0"  // dropped by report types that re-estimate reads
)

// Entry maps one tracked taxon label to its external id.
type Entry struct {
	Label string
	ID    string
}

// Dictionary is the ordered taxon label → id mapping. Order follows the
// JSON object so summary rows come out in the order the caller declared.
type Dictionary []Entry

// ParseDictionary decodes a JSON object of label → id, keeping key order.
// Numeric ids are accepted and kept in their literal form.
func ParseDictionary(text string) (Dictionary, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, taxon.Formatf(0, "taxid map: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, taxon.Formatf(0, "taxid map: expected a JSON object")
	}

	var dict Dictionary
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, taxon.Formatf(0, "taxid map: %v", err)
		}
		label, _ := kt.(string)

		vt, err := dec.Token()
		if err != nil {
			return nil, taxon.Formatf(0, "taxid map: %v", err)
		}
		var id string
		switch v := vt.(type) {
		case string:
			id = v
		case json.Number:
			id = v.String()
		default:
			return nil, taxon.Formatf(0, "taxid map: value for %q must be a string or number", label)
		}
		dict = append(dict, Entry{Label: label, ID: id})
	}
	if _, err := dec.Token(); err != nil {
		return nil, taxon.Formatf(0, "taxid map: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, taxon.Formatf(0, "taxid map: trailing data after object")
	}
	return dict, nil
}

// JSON renders the dictionary back to an ordered JSON object.
func (d Dictionary) JSON() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(e.Label)
		v, _ := json.Marshal(e.ID)
		fmt.Fprintf(&b, "%s:%s", k, v)
	}
	b.WriteByte('}')
	return b.String()
}
