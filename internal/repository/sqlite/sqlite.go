package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/aerocode/internal/db"
	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	q      querier
	inTx   bool
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.AircraftRepo = (*SQLiteRepo)(nil)
var _ repository.PartRepo = (*SQLiteRepo)(nil)
var _ repository.StageRepo = (*SQLiteRepo)(nil)
var _ repository.TestRepo = (*SQLiteRepo)(nil)
var _ repository.EmployeeRepo = (*SQLiteRepo)(nil)
var _ repository.TxStore = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, q: conn.GetConn(), logger: logger}
}

// WithTx runs fn inside a transaction. Calls made on a repo that is already
// bound to a transaction reuse it.
func (r *SQLiteRepo) WithTx(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	if r.inTx {
		return fn(ctx, r)
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return dbErr(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &SQLiteRepo{conn: r.conn, q: tx, inTx: true, logger: r.logger}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dbErr(err, "commit transaction")
	}
	return nil
}

// dbErr marks driver failures. Constraint violations get their own markers so
// callers see a 409/403 instead of a 500.
func dbErr(err error, op string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ierr.WithError(err).
			WithMessage(op).
			WithHint("a record with the same unique key already exists").
			Mark(ierr.ErrAlreadyExists)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ierr.WithError(err).
			WithMessage(op).
			WithHint("the record is referenced by, or references, a missing record").
			Mark(ierr.ErrConflict)
	case strings.Contains(msg, "CHECK constraint failed"):
		return ierr.WithError(err).
			WithMessage(op).
			WithHint("a field value is out of range").
			Mark(ierr.ErrValidation)
	}
	return ierr.WithError(err).WithMessage(op).Mark(ierr.ErrDatabase)
}

func notFound(entity string, id int64) error {
	return ierr.NewError(fmt.Sprintf("%s %d not found", entity, id)).
		WithHintf("%s %d not found", entity, id).
		Mark(ierr.ErrNotFound)
}

// affected turns a zero RowsAffected into a not-found error.
func affected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err, "rows affected")
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}
