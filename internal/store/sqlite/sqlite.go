// internal/store/sqlite/sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"go.uber.org/multierr"

	"metaxsfr/internal/output"
	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

// Archive keeps per-sample summary and taxonomy rows of one or more runs.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) an archive database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection; one connection keeps foreign keys enforced.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

// Close closes the database connection.
func (a *Archive) Close() error { return a.db.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	report_type TEXT NOT NULL,
	report_db TEXT NOT NULL,
	created TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS summary (
	run_id TEXT NOT NULL,
	sample TEXT NOT NULL,
	taxid TEXT NOT NULL,
	taxon TEXT NOT NULL,
	clade_reads INTEGER NOT NULL,
	PRIMARY KEY(run_id, sample, taxid),
	FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS taxonomy (
	run_id TEXT NOT NULL,
	sample TEXT NOT NULL,
	seq INTEGER NOT NULL,
	percentage REAL NOT NULL,
	clade_reads INTEGER NOT NULL,
	name TEXT NOT NULL,
	tax_rank TEXT NOT NULL,
	lineage TEXT NOT NULL,
	PRIMARY KEY(run_id, sample, seq),
	FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_taxonomy_name ON taxonomy(name);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Run describes one archived run.
type Run struct {
	ID         string
	ReportType string
	ReportDB   string
	Created    string
}

// SaveRun records run metadata. Saving the same id twice replaces it.
func (a *Archive) SaveRun(ctx context.Context, r Run) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO runs(run_id, report_type, report_db, created) VALUES(?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET report_type=excluded.report_type, report_db=excluded.report_db, created=excluded.created`,
		r.ID, r.ReportType, r.ReportDB, r.Created)
	return err
}

// SaveSample stores one sample's summary and taxonomy rows in a single
// transaction, replacing anything previously stored for that sample.
func (a *Archive) SaveSample(ctx context.Context, runID, sampleID string, rows []summary.Row, frames []taxon.Frame, schema taxon.RankSchema) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	for _, q := range []string{
		`DELETE FROM summary WHERE run_id = ? AND sample = ?`,
		`DELETE FROM taxonomy WHERE run_id = ? AND sample = ?`,
	} {
		if _, err = tx.ExecContext(ctx, q, runID, sampleID); err != nil {
			return err
		}
	}

	for _, r := range rows {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO summary(run_id, sample, taxid, taxon, clade_reads) VALUES(?, ?, ?, ?, ?)`,
			runID, sampleID, r.TaxID, r.Taxon, r.CladeReads); err != nil {
			return fmt.Errorf("summary %s: %w", r.TaxID, err)
		}
	}

	for i, f := range frames {
		rec := output.ToAPITaxonomy(f, schema)
		lineage, mErr := lineageJSON(rec.Lineage, schema)
		if mErr != nil {
			return mErr
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO taxonomy(run_id, sample, seq, percentage, clade_reads, name, tax_rank, lineage) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, sampleID, i, f.Percentage, f.CladeReads, f.DisplayName, f.Rank, lineage); err != nil {
			return fmt.Errorf("taxonomy %s: %w", f.DisplayName, err)
		}
	}
	return tx.Commit()
}

// SummaryRows returns the stored summary rows of a sample in taxid order.
func (a *Archive) SummaryRows(ctx context.Context, runID, sampleID string) ([]summary.Row, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT taxid, taxon, clade_reads FROM summary WHERE run_id = ? AND sample = ? ORDER BY taxid`,
		runID, sampleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []summary.Row
	for rows.Next() {
		r := summary.Row{SampleID: sampleID}
		if err := rows.Scan(&r.TaxID, &r.Taxon, &r.CladeReads); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountTaxonomy returns how many taxonomy rows a sample has.
func (a *Archive) CountTaxonomy(ctx context.Context, runID, sampleID string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM taxonomy WHERE run_id = ? AND sample = ?`, runID, sampleID).Scan(&n)
	return n, err
}

// Samples lists the distinct samples archived for a run.
func (a *Archive) Samples(ctx context.Context, runID string) ([]string, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT DISTINCT sample FROM taxonomy WHERE run_id = ?
		 UNION SELECT DISTINCT sample FROM summary WHERE run_id = ? ORDER BY 1`, runID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
