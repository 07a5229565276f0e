// Package store persists exported state bundles and collected verifier
// reports in an embedded SQLite archive.
//
// The core verification pipeline is persistence-free; this archive exists
// for the operator CLI, which needs somewhere to keep bundles it exported
// and reports it gathered before aggregation. SQLite keeps the verifier
// standalone with no database server to trust.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/statetrust/veristate/pkg/bundle"
	"github.com/statetrust/veristate/pkg/contracts"

	_ "modernc.org/sqlite"
)

// SQLiteArchive stores bundles and verifier reports.
type SQLiteArchive struct {
	db *sql.DB
}

// Open opens (or creates) the archive at path and runs migrations.
// Use ":memory:" for an ephemeral archive.
func Open(path string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return NewSQLiteArchive(db)
}

// NewSQLiteArchive wraps an existing database handle and runs migrations.
func NewSQLiteArchive(db *sql.DB) (*SQLiteArchive, error) {
	a := &SQLiteArchive{db: db}
	if err := a.migrate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *SQLiteArchive) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS state_bundles (
        bundle_hash TEXT PRIMARY KEY,
        global_hash TEXT NOT NULL,
        version INTEGER NOT NULL,
        payload JSON NOT NULL,
        exported_at DATETIME
    );
    CREATE TABLE IF NOT EXISTS verifier_reports (
        report_id TEXT PRIMARY KEY,
        verifier_id TEXT NOT NULL,
        bundle_hash TEXT NOT NULL,
        verdict TEXT NOT NULL,
        payload JSON NOT NULL,
        verified_at DATETIME
    );`
	_, err := a.db.ExecContext(context.Background(), query)
	if err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// StoreBundle archives an exported bundle, keyed by its bundle hash.
// Bundles are content-addressed and immutable, so re-archiving a bundle
// already present under the same hash is a no-op, not an error.
func (a *SQLiteArchive) StoreBundle(ctx context.Context, b bundle.ExportableStateBundle) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	query := `INSERT OR IGNORE INTO state_bundles (bundle_hash, global_hash, version, payload, exported_at)
        VALUES (?, ?, ?, ?, ?)`
	_, err = a.db.ExecContext(ctx, query,
		b.BundleHash, b.GlobalStateHash.Hash, b.Version, string(payload),
		b.ExportedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	return nil
}

// GetBundle fetches an archived bundle by bundle hash.
func (a *SQLiteArchive) GetBundle(ctx context.Context, bundleHash string) (bundle.ExportableStateBundle, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT payload FROM state_bundles WHERE bundle_hash = ?`, bundleHash)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return bundle.ExportableStateBundle{}, fmt.Errorf("bundle %s not found", bundleHash)
		}
		return bundle.ExportableStateBundle{}, fmt.Errorf("get bundle: %w", err)
	}

	var b bundle.ExportableStateBundle
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return bundle.ExportableStateBundle{}, fmt.Errorf("decode archived bundle: %w", err)
	}
	return b, nil
}

// ListBundles returns archived bundles, most recently exported first.
func (a *SQLiteArchive) ListBundles(ctx context.Context, limit int) ([]bundle.ExportableStateBundle, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT payload FROM state_bundles ORDER BY exported_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bundles []bundle.ExportableStateBundle
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan bundle: %w", err)
		}
		var b bundle.ExportableStateBundle
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			return nil, fmt.Errorf("decode archived bundle: %w", err)
		}
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	return bundles, nil
}

// StoreReport archives one verifier's report.
func (a *SQLiteArchive) StoreReport(ctx context.Context, r contracts.VerifierReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	query := `INSERT INTO verifier_reports (report_id, verifier_id, bundle_hash, verdict, payload, verified_at)
        VALUES (?, ?, ?, ?, ?, ?)`
	_, err = a.db.ExecContext(ctx, query,
		r.ReportID, r.VerifierID, r.BundleHash, string(r.Verdict), string(payload),
		r.VerifiedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// ListReportsByBundle returns every collected report for a bundle in
// insertion order. Order matters downstream: the consensus aggregator
// preserves it when naming dissenters.
func (a *SQLiteArchive) ListReportsByBundle(ctx context.Context, bundleHash string) ([]contracts.VerifierReport, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT payload FROM verifier_reports WHERE bundle_hash = ? ORDER BY rowid ASC`, bundleHash)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []contracts.VerifierReport
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var r contracts.VerifierReport
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode archived report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}
