package repository_test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"printsync/internal/models"
	"printsync/internal/repository"
)

func TestConsoleSQLite_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewConsoleSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO console_entries (id, at, type, message)`)).
		WithArgs(sqlmock.AnyArg(), int64(1700000000), "response", "ok").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := models.ConsoleEntry{Message: "ok", Time: 1700000000, Type: "response"}
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsoleSQLite_Append_DefaultsTypeAndTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewConsoleSQLite(db)

	recentUnix := sqlmockArgumentFunc(func(v driver.Value) bool {
		at, ok := v.(int64)
		if !ok {
			return false
		}
		now := time.Now().Unix()
		return at >= now-5 && at <= now+5
	})

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO console_entries`)).
		WithArgs(sqlmock.AnyArg(), recentUnix, "response", "hello").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Append(context.Background(), models.ConsoleEntry{Message: "hello"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsoleSQLite_List_RangeAndOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewConsoleSQLite(db)

	from := time.Unix(1700000000, 0)
	to := time.Unix(1700003600, 0)

	rows := sqlmock.NewRows([]string{"at", "type", "message"}).
		AddRow(int64(1700000100), "command", "G28").
		AddRow(int64(1700000101), "response", "ok")

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT at, type, message FROM console_entries WHERE at >= ? AND at <= ? ORDER BY at ASC LIMIT ?`)).
		WithArgs(from.Unix(), to.Unix(), 100).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), from, to, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Message != "G28" || got[0].Type != "command" {
		t.Errorf("first entry = %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsoleSQLite_List_NoFilterUsesDefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewConsoleSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT at, type, message FROM console_entries ORDER BY at ASC LIMIT ?`)).
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows([]string{"at", "type", "message"}))

	if _, err := repo.List(context.Background(), time.Time{}, time.Time{}, 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// sqlmockArgumentFunc adapts a predicate into a sqlmock argument matcher.
type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }
