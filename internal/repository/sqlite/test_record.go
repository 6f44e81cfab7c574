package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
)

const testColumns = `id, type, result, recorded_at, aircraft_code`

func scanTest(s interface{ Scan(...any) error }, t *models.TestRecord) error {
	var at int64
	if err := s.Scan(&t.ID, &t.Type, &t.Result, &at, &t.AircraftCode); err != nil {
		return err
	}
	t.Timestamp = fromMicros(at)
	return nil
}

func (r *SQLiteRepo) CreateTest(ctx context.Context, t *models.TestRecord) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("test record is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO test_records (type, result, recorded_at, aircraft_code) VALUES (?, ?, ?, ?)`, t.Type, t.Result, toMicros(t.Timestamp), t.AircraftCode)
	if err != nil {
		return 0, dbErr(err, "insert test record")
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) CurrentTest(ctx context.Context, aircraftCode int64, typ models.TestType) (*models.TestRecord, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+testColumns+` FROM test_records WHERE aircraft_code = ? AND type = ? ORDER BY recorded_at DESC, id DESC LIMIT 1`, aircraftCode, typ)
	var t models.TestRecord
	if err := scanTest(row, &t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, dbErr(err, "get current test record")
	}

	return &t, nil
}

func (r *SQLiteRepo) OverwriteRejected(ctx context.Context, id int64, result models.TestResult, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE test_records SET result = ?, recorded_at = ? WHERE id = ? AND result = ?`, result, toMicros(at), id, models.ResultRejected)
	if err != nil {
		return dbErr(err, "overwrite test record")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err, "rows affected")
	}
	if n == 0 {
		return ierr.NewError(fmt.Sprintf("test record %d is not rejected", id)).
			WithHint("test already approved, result is frozen").
			Mark(ierr.ErrConflict)
	}

	return nil
}

func (r *SQLiteRepo) ListTests(ctx context.Context, aircraftCode int64) ([]models.TestRecord, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+testColumns+` FROM test_records WHERE aircraft_code = ? ORDER BY recorded_at DESC, id DESC`, aircraftCode)
	if err != nil {
		return nil, dbErr(err, "list test records")
	}
	defer rows.Close()

	var out []models.TestRecord
	for rows.Next() {
		var t models.TestRecord
		if err := scanTest(rows, &t); err != nil {
			return nil, dbErr(err, "scan test record")
		}
		out = append(out, t)
	}

	return out, rows.Err()
}
