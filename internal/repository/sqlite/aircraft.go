package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
)

func (r *SQLiteRepo) CreateAircraft(ctx context.Context, a *models.Aircraft) error {
	if a == nil {
		return fmt.Errorf("aircraft is nil")
	}

	_, err := r.q.ExecContext(ctx, `INSERT INTO aircraft (code, model, category, capacity, range_km) VALUES (?, ?, ?, ?, ?)`, a.Code, a.Model, a.Category, a.Capacity, a.Range)
	if err != nil {
		return dbErr(err, "insert aircraft")
	}

	return nil
}

func (r *SQLiteRepo) GetAircraft(ctx context.Context, code int64) (*models.Aircraft, error) {
	row := r.q.QueryRowContext(ctx, `SELECT code, model, category, capacity, range_km FROM aircraft WHERE code = ?`, code)
	var a models.Aircraft
	if err := row.Scan(&a.Code, &a.Model, &a.Category, &a.Capacity, &a.Range); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, dbErr(err, "get aircraft")
	}

	return &a, nil
}

func (r *SQLiteRepo) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT code, model, category, capacity, range_km FROM aircraft ORDER BY code`)
	if err != nil {
		return nil, dbErr(err, "list aircraft")
	}
	defer rows.Close()

	var out []models.Aircraft
	for rows.Next() {
		var a models.Aircraft
		if err := rows.Scan(&a.Code, &a.Model, &a.Category, &a.Capacity, &a.Range); err != nil {
			return nil, dbErr(err, "scan aircraft")
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateAircraft(ctx context.Context, a *models.Aircraft) error {
	if a == nil {
		return fmt.Errorf("aircraft is nil")
	}

	res, err := r.q.ExecContext(ctx, `UPDATE aircraft SET model = ?, category = ?, capacity = ?, range_km = ? WHERE code = ?`, a.Model, a.Category, a.Capacity, a.Range, a.Code)
	if err != nil {
		return dbErr(err, "update aircraft")
	}

	return affected(res, "aircraft", a.Code)
}

func (r *SQLiteRepo) DeleteAircraft(ctx context.Context, code int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM aircraft WHERE code = ?`, code)
	if err != nil {
		return dbErr(err, "delete aircraft")
	}

	return affected(res, "aircraft", code)
}

func (r *SQLiteRepo) CountDependents(ctx context.Context, code int64) (repository.DependentCounts, error) {
	var d repository.DependentCounts
	row := r.q.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM parts WHERE aircraft_code = ?),
		(SELECT COUNT(*) FROM stages WHERE aircraft_code = ?),
		(SELECT COUNT(*) FROM test_records WHERE aircraft_code = ?)`, code, code, code)
	if err := row.Scan(&d.Parts, &d.Stages, &d.Tests); err != nil {
		return d, dbErr(err, "count aircraft dependents")
	}

	return d, nil
}
