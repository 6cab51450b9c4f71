// internal/report/kraken.go
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"metaxsfr/internal/lineage"
	"metaxsfr/internal/ranks"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// Kraken decodes kraken2/bracken reports: six tab-separated columns, or
// eight when minimizer counts are present. Tree depth is encoded as two
// leading spaces per level in the name column.
type Kraken struct{}

func (Kraken) Dialect() string { return "indentation" }
func (Kraken) Merge() summary.Merge { return summary.Overwrite }
func (Kraken) KeepZero() bool { return true }

type krakenColumns struct {
	n, rank, taxid, name int
}

func krakenLayout(n int) (krakenColumns, bool) {
	switch n {
	case 6:
		return krakenColumns{n: 6, rank: 3, taxid: 4, name: 5}, true
	case 8:
		return krakenColumns{n: 8, rank: 5, taxid: 6, name: 7}, true
	}
	return krakenColumns{}, false
}

// Records parses the report into raw records plus one observation per line.
func (Kraken) Records(r io.Reader) ([]taxon.Record, []taxon.Observation, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 4<<20)

	var (
		cols    krakenColumns
		haveCol bool
		recs    []taxon.Record
		obs     []taxon.Observation
		ln      int
	)
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if !haveCol {
			var ok bool
			if cols, ok = krakenLayout(len(f)); !ok {
				return nil, nil, taxon.Formatf(ln, "unrecognized kraken report format (found %d columns)", len(f))
			}
			haveCol = true
		}
		rec, ok := parseKrakenLine(f, cols)
		if !ok {
			continue
		}
		recs = append(recs, rec)
		obs = append(obs, taxon.Observation{TaxIDs: []string{rec.TaxID}, Reads: rec.CladeReads})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if !haveCol {
		return nil, nil, taxon.Formatf(0, "empty report")
	}
	return recs, obs, nil
}

func parseKrakenLine(f []string, cols krakenColumns) (taxon.Record, bool) {
	if len(f) != cols.n {
		return taxon.Record{}, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(f[0]), 64)
	if err != nil {
		return taxon.Record{}, false
	}
	clade, err := strconv.ParseInt(strings.TrimSpace(f[1]), 10, 64)
	if err != nil {
		return taxon.Record{}, false
	}
	own, err := strconv.ParseInt(strings.TrimSpace(f[2]), 10, 64)
	if err != nil {
		return taxon.Record{}, false
	}
	raw := f[cols.name]
	name := strings.TrimLeft(raw, " \t")
	return taxon.Record{
		Rank:       strings.TrimSpace(f[cols.rank]),
		TaxID:      strings.TrimSpace(f[cols.taxid]),
		Name:       strings.TrimSpace(name),
		Depth:      (len(raw) - len(name)) / 2,
		Percentage: pct,
		CladeReads: clade,
		TaxonReads: own,
	}, true
}

// Decode resolves every record's lineage against the full record sequence.
func (k Kraken) Decode(r io.Reader, norm *ranks.Normalizer) (*Decoded, error) {
	recs, obs, err := k.Records(r)
	if err != nil {
		return nil, err
	}
	return &Decoded{Frames: lineage.ResolveAll(recs, norm), Observations: obs}, nil
}
