// Package storage keeps a local SQLite mirror of the ledger rows so the
// dashboard works offline and saves are fast; the worker replays the mirror
// to the remote sheet afterwards.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"fluxo/internal/core"
	"fluxo/internal/ledger"
	"fluxo/internal/sheets"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var (
	_ sheets.RecordSource = (*SQLiteRepository)(nil)
	_ sheets.RecordSink   = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Read implements sheets.RecordSource: all mirrored rows in stored order.
func (r *SQLiteRepository) Read(ctx context.Context) ([]core.RawRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data_transacao, valor, tipo_movimento, status, instituicao, categoria_macro, descricao
		FROM ledger_rows ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rows.Close()

	var out []core.RawRecord
	for rows.Next() {
		var date, amount, movement, status, institution, category, description string
		if err := rows.Scan(&date, &amount, &movement, &status, &institution, &category, &description); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		out = append(out, core.RawRecord{
			ledger.ColDate:        date,
			ledger.ColAmount:      amount,
			ledger.ColMovement:    movement,
			ledger.ColStatus:      status,
			ledger.ColInstitution: institution,
			ledger.ColCategory:    category,
			ledger.ColDescription: description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

// Update implements sheets.RecordSink: full replacement in one transaction,
// marking the mirror as pending replication.
func (r *SQLiteRepository) Update(ctx context.Context, _ []string, records []core.RawRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_rows`); err != nil {
		return fmt.Errorf("clear ledger rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_rows (position, data_transacao, valor, tipo_movimento, status, instituicao, categoria_macro, descricao)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.ExecContext(ctx, i,
			rec[ledger.ColDate],
			rec[ledger.ColAmount],
			rec[ledger.ColMovement],
			rec[ledger.ColStatus],
			rec[ledger.ColInstitution],
			rec[ledger.ColCategory],
			rec[ledger.ColDescription])
		if err != nil {
			return fmt.Errorf("insert ledger row %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE sync_state SET pending = 1, updated_at = datetime('now') WHERE id = 1`); err != nil {
		return fmt.Errorf("mark pending sync: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Ledger mirror replaced", "rows", len(records))
	return nil
}

// PendingSync reports whether the mirror holds rows the remote sheet has not
// seen yet.
func (r *SQLiteRepository) PendingSync(ctx context.Context) (bool, error) {
	var pending int
	err := r.db.QueryRowContext(ctx, `SELECT pending FROM sync_state WHERE id = 1`).Scan(&pending)
	if err != nil {
		return false, fmt.Errorf("query sync state: %w", err)
	}
	return pending == 1, nil
}

// MarkSynced clears the pending flag after a successful replication.
func (r *SQLiteRepository) MarkSynced(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE sync_state SET pending = 0, updated_at = datetime('now') WHERE id = 1`); err != nil {
		return fmt.Errorf("clear pending sync: %w", err)
	}
	return nil
}
