package code

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGStore keeps the active code in a single-row table and the history in
// an append-only table. The single row makes the overwrite a plain upsert
// instead of ambient shared state.
type PGStore struct {
	db *sql.DB
}

// NewPGStore creates a Postgres-backed code store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Save upserts the active row, then appends to the history table. The
// history insert is deliberately outside any transaction; if it fails the
// stores diverge and the caller is told so.
func (s *PGStore) Save(ctx context.Context, ac ActiveCode) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO active_code (id, code, issued_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at
	`, ac.Code, ac.IssuedAt)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO code_history (code, issued_at) VALUES ($1, $2)
	`, ac.Code, ac.IssuedAt)
	if err != nil {
		return fmt.Errorf("history diverged from active code: %w", err)
	}
	return nil
}

// Active returns the current code, or nil when the row does not exist yet.
func (s *PGStore) Active(ctx context.Context) (*ActiveCode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT code, issued_at FROM active_code WHERE id = 1`)
	var ac ActiveCode
	if err := row.Scan(&ac.Code, &ac.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ac, nil
}

// History returns all issued codes in issuance order.
func (s *PGStore) History(ctx context.Context) ([]ActiveCode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, issued_at FROM code_history ORDER BY issued_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveCode
	for rows.Next() {
		var ac ActiveCode
		if err := rows.Scan(&ac.Code, &ac.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}
