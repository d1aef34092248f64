package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"printsync/internal/models"
)

type SampleSQLite struct {
	db *sql.DB
}

func NewSampleSQLite(db *sql.DB) *SampleSQLite { return &SampleSQLite{db: db} }

var _ SampleRepo = (*SampleSQLite)(nil)

const defaultSampleLimit = 600

// Append archives one chart point; the series map is stored as JSON.
func (r *SampleSQLite) Append(ctx context.Context, p models.ChartPoint) error {
	series, err := json.Marshal(p.Values)
	if err != nil {
		return fmt.Errorf("marshal chart series: %w", err)
	}
	at := p.Time
	if at.IsZero() {
		at = time.Now()
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO chart_samples (id, at, series)
		VALUES (?, ?, ?)
	`, uuid.NewString(), at.UTC().Format("2006-01-02 15:04:05"), string(series))
	return err
}

// List returns archived samples within [from, to] (inclusive, zero means
// unbounded), oldest first, capped at limit.
func (r *SampleSQLite) List(ctx context.Context, from, to time.Time, limit int) ([]models.ChartPoint, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "at <= ?")
		args = append(args, to.UTC())
	}
	if limit <= 0 {
		limit = defaultSampleLimit
	}

	q := `SELECT at, series FROM chart_samples`
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

	out := make([]models.ChartPoint, 0, 64)
	for rows.Next() {
		var (
			p      models.ChartPoint
			series string
		)
		if err := rows.Scan(&p.Time, &series); err != nil {
			return nil, err
		}
		p.Time = p.Time.UTC()
		if err := json.Unmarshal([]byte(series), &p.Values); err != nil {
			return nil, fmt.Errorf("unmarshal chart series: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
