// Package template splices a JSON payload into a report template between
// two marker strings. It is plain text surgery: every byte outside the
// replaced span is copied unchanged.
package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"metaxsfr/internal/jsonutil"
)

// ErrMarkerNotFound is wrapped by every *MarkerError.
var ErrMarkerNotFound = errors.New("marker not found")

// MarkerError names the marker that could not be located.
type MarkerError struct {
	Which  string // "start" or "end"
	Marker string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("MarkerNotFound: %s recognition sequence not found: %q", e.Which, e.Marker)
}

func (e *MarkerError) Unwrap() error { return ErrMarkerNotFound }

// StartPattern is the text that opens the embedded literal.
func StartPattern(marker string) string {
	return `JSON.parse('{"startIdx":"` + marker + `"`
}

// EndPattern is the text that closes the embedded literal.
func EndPattern(marker string) string {
	return `"endIdx":"` + marker + `"}')`
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Literal serializes payload and wraps it as a single-quoted JSON.parse call.
// For the result to be found again by Mutate, payload must serialize with
// "startIdx" first and "endIdx" last.
func Literal(payload any) (string, error) {
	raw, err := jsonutil.MarshalRaw(payload)
	if err != nil {
		return "", err
	}
	return "JSON.parse('" + literalEscaper.Replace(string(raw)) + "')", nil
}

// Span locates the literal: [from, to) covers the start pattern through the
// end of the first end pattern after it.
func Span(text, startMarker, endMarker string) (from, to int, err error) {
	sp := StartPattern(startMarker)
	from = strings.Index(text, sp)
	if from < 0 {
		return 0, 0, &MarkerError{Which: "start", Marker: startMarker}
	}
	ep := EndPattern(endMarker)
	rel := strings.Index(text[from:], ep)
	if rel < 0 {
		return 0, 0, &MarkerError{Which: "end", Marker: endMarker}
	}
	return from, from + rel + len(ep), nil
}

// Mutate returns text with the marked literal replaced by payload.
func Mutate(text, startMarker, endMarker string, payload any) (string, error) {
	from, to, err := Span(text, startMarker, endMarker)
	if err != nil {
		return "", err
	}
	lit, err := Literal(payload)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(from + len(lit) + len(text) - to)
	b.WriteString(text[:from])
	b.WriteString(lit)
	b.WriteString(text[to:])
	return b.String(), nil
}

// MutateFile reads the template, mutates it in memory and writes outPath
// through a temporary file in the same directory, so a failed run never
// leaves a partial report. It returns the number of bytes written.
func MutateFile(templatePath, outPath, startMarker, endMarker string, payload any) (int, error) {
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return 0, err
	}
	out, err := Mutate(string(src), startMarker, endMarker, payload)
	if err != nil {
		return 0, err
	}
	if err := writeAtomic(outPath, []byte(out)); err != nil {
		return 0, err
	}
	return len(out), nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
