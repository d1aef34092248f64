package repository

import (
	"context"
	"database/sql"
	"time"

	"printsync/internal/models"
	"printsync/internal/repository/db"
)

// InitDB opens the archive database. Thin re-export so callers wire one
// package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ConsoleRepo archives console entries.
type ConsoleRepo interface {
	Append(ctx context.Context, e models.ConsoleEntry) error
	List(ctx context.Context, from, to time.Time, limit int) ([]models.ConsoleEntry, error)
}

// SampleRepo archives chart points.
type SampleRepo interface {
	Append(ctx context.Context, p models.ChartPoint) error
	List(ctx context.Context, from, to time.Time, limit int) ([]models.ChartPoint, error)
}

type Repository struct {
	Console ConsoleRepo
	Samples SampleRepo
	Auth    Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Console: NewConsoleSQLite(db),
		Samples: NewSampleSQLite(db),
		Auth:    NewUserRepository(db),
	}
}
