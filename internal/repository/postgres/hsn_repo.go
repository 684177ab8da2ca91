package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gstr1/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

// NewHSNRepo creates a new PostgreSQL-backed HSNRepository.
func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

func (r *hsnRepo) LoadAll(ctx context.Context) ([]port.HSNEntry, error) {
	var entries []port.HSNEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, gst_rate, condition_desc, parent_code
		 FROM hsn_codes
		 WHERE effective_to IS NULL OR effective_to >= CURRENT_DATE
		 ORDER BY code, gst_rate`)
	if err != nil {
		return nil, fmt.Errorf("loading hsn codes: %w", err)
	}
	return entries, nil
}

// UpsertBatch inserts entries in one transaction, refreshing the description
// of rows that already exist. It returns the number of rows written.
func (r *hsnRepo) UpsertBatch(ctx context.Context, entries []port.HSNEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning hsn upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO hsn_codes (code, description, gst_rate, condition_desc, parent_code)
		 VALUES (:code, :description, :gst_rate, :condition_desc, :parent_code)
		 ON CONFLICT (code, gst_rate, condition_desc, effective_from)
		 DO UPDATE SET description = EXCLUDED.description, parent_code = EXCLUDED.parent_code`)
	if err != nil {
		return 0, fmt.Errorf("preparing hsn upsert: %w", err)
	}
	defer stmt.Close()

	var written int64
	for i := range entries {
		res, err := stmt.ExecContext(ctx, entries[i])
		if err != nil {
			return 0, fmt.Errorf("upserting hsn %s: %w", entries[i].Code, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("upserting hsn %s: %w", entries[i].Code, err)
		}
		written += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing hsn upsert: %w", err)
	}
	return written, nil
}
