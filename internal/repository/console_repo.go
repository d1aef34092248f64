package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"printsync/internal/models"
)

type ConsoleSQLite struct {
	db *sql.DB
}

func NewConsoleSQLite(db *sql.DB) *ConsoleSQLite { return &ConsoleSQLite{db: db} }

var _ ConsoleRepo = (*ConsoleSQLite)(nil)

const defaultConsoleLimit = 500

// Append archives one console entry. A missing timestamp is set to now.
func (r *ConsoleSQLite) Append(ctx context.Context, e models.ConsoleEntry) error {
	at := e.Time
	if at <= 0 {
		at = time.Now().Unix()
	}
	typ := e.Type
	if typ == "" {
		typ = models.ConsoleTypeResponse
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO console_entries (id, at, type, message)
		VALUES (?, ?, ?, ?)
	`, uuid.NewString(), at, typ, e.Message)
	return err
}

// List returns archived entries within [from, to] (inclusive, zero means
// unbounded), oldest first, capped at limit.
func (r *ConsoleSQLite) List(ctx context.Context, from, to time.Time, limit int) ([]models.ConsoleEntry, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "at >= ?")
		args = append(args, from.Unix())
	}
	if !to.IsZero() {
		conds = append(conds, "at <= ?")
		args = append(args, to.Unix())
	}
	if limit <= 0 {
		limit = defaultConsoleLimit
	}

	q := `SELECT at, type, message FROM console_entries`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ConsoleEntry, 0, 64)
	for rows.Next() {
		var e models.ConsoleEntry
		if err := rows.Scan(&e.Time, &e.Type, &e.Message); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
