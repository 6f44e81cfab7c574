package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/aerocode/pkg/models"
)

const partColumns = `id, name, origin, supplier, status, aircraft_code`

func scanPart(s interface{ Scan(...any) error }, p *models.Part) error {
	return s.Scan(&p.ID, &p.Name, &p.Origin, &p.Supplier, &p.Status, &p.AircraftCode)
}

func (r *SQLiteRepo) CreatePart(ctx context.Context, p *models.Part) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("part is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO parts (name, origin, supplier, status, aircraft_code) VALUES (?, ?, ?, ?, ?)`, p.Name, p.Origin, p.Supplier, p.Status, p.AircraftCode)
	if err != nil {
		return 0, dbErr(err, "insert part")
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetPart(ctx context.Context, id int64) (*models.Part, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+partColumns+` FROM parts WHERE id = ?`, id)
	var p models.Part
	if err := scanPart(row, &p); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, dbErr(err, "get part")
	}

	return &p, nil
}

func (r *SQLiteRepo) ListParts(ctx context.Context, aircraftCode *int64) ([]models.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts`
	var args []any
	if aircraftCode != nil {
		query += ` WHERE aircraft_code = ?`
		args = append(args, *aircraftCode)
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbErr(err, "list parts")
	}
	defer rows.Close()

	var out []models.Part
	for rows.Next() {
		var p models.Part
		if err := scanPart(rows, &p); err != nil {
			return nil, dbErr(err, "scan part")
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdatePart(ctx context.Context, p *models.Part) error {
	if p == nil {
		return fmt.Errorf("part is nil")
	}

	res, err := r.q.ExecContext(ctx, `UPDATE parts SET name = ?, origin = ?, supplier = ?, status = ?, aircraft_code = ? WHERE id = ?`, p.Name, p.Origin, p.Supplier, p.Status, p.AircraftCode, p.ID)
	if err != nil {
		return dbErr(err, "update part")
	}

	return affected(res, "part", p.ID)
}

func (r *SQLiteRepo) DeletePart(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		return dbErr(err, "delete part")
	}

	return affected(res, "part", id)
}
