// Package pivot compiles many per-sample summary tables into one
// sample × taxon matrix.
//
// The column names of every file are taken from the first file's header;
// later files are not checked against it.
package pivot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shenwei356/xopen"

	"metaxsfr/internal/taxon"
)

// ErrEmptyInput is returned when no summary files are supplied.
var ErrEmptyInput = errors.New("EmptyInputError: no summary files provided")

// Fill is the value written for a taxon a sample never reported.
const Fill = "0"

// Column names the pivot reads from each narrow row.
const (
	ColID     = "id"
	ColTaxon  = "taxon"
	ColCounts = "cladeReads"
)

// Row is one narrow summary row keyed by the first file's header.
type Row map[string]string

// Matrix is the wide sample × taxon table.
type Matrix struct {
	Taxa    []string // sorted
	Samples []string // first-seen order
	values  map[string]map[string]string
}

// Build pivots narrow rows. Rows without an id or taxon column are skipped.
func Build(rows []Row) *Matrix {
	m := &Matrix{values: map[string]map[string]string{}}
	taxa := map[string]struct{}{}
	for _, r := range rows {
		id, okID := r[ColID]
		tx, okTx := r[ColTaxon]
		if !okID || !okTx {
			continue
		}
		taxa[tx] = struct{}{}
		per, ok := m.values[id]
		if !ok {
			per = map[string]string{}
			m.values[id] = per
			m.Samples = append(m.Samples, id)
		}
		per[tx] = r[ColCounts]
	}
	for tx := range taxa {
		m.Taxa = append(m.Taxa, tx)
	}
	sort.Strings(m.Taxa)
	return m
}

// Value returns the count for sample and taxon, or Fill.
func (m *Matrix) Value(sample, tx string) string {
	if v, ok := m.values[sample][tx]; ok {
		return v
	}
	return Fill
}

// Header is "id" followed by the sorted taxa.
func (m *Matrix) Header() []string {
	return append([]string{ColID}, m.Taxa...)
}

// Rows returns the header followed by one row per sample.
func (m *Matrix) Rows() [][]string {
	out := make([][]string, 0, len(m.Samples)+1)
	out = append(out, m.Header())
	for _, s := range m.Samples {
		row := make([]string, 0, len(m.Taxa)+1)
		row = append(row, s)
		for _, tx := range m.Taxa {
			row = append(row, m.Value(s, tx))
		}
		out = append(out, row)
	}
	return out
}

// WriteTSV writes the matrix as TSV.
func (m *Matrix) WriteTSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw.WriteAll(m.Rows())
}

// Compile reads every summary file and pivots them. The header of the
// first file names the columns of all files.
func Compile(paths []string) (*Matrix, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyInput
	}
	var (
		header []string
		rows   []Row
	)
	for _, p := range paths {
		h, recs, err := readTSV(p)
		if err != nil {
			return nil, err
		}
		if header == nil {
			header = h
		}
		for _, rec := range recs {
			rows = append(rows, zip(header, rec))
		}
	}
	return Build(rows), nil
}

// zip pairs header names with values, stopping at the shorter of the two.
func zip(header, rec []string) Row {
	n := min(len(header), len(rec))
	r := make(Row, n)
	for i := 0; i < n; i++ {
		r[header[i]] = rec[i]
	}
	return r
}

func readTSV(path string) (header []string, recs [][]string, err error) {
	fh, err := xopen.Ropen(path)
	if errors.Is(err, xopen.ErrNoContent) {
		return nil, nil, &taxon.FormatError{Path: path, Reason: "summary file has no header"}
	}
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	cr := csv.NewReader(fh)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &taxon.FormatError{Path: path, Reason: "summary file has no header"}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		recs = append(recs, rec)
	}
	return header, recs, nil
}
