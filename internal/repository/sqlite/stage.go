package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
)

const stageColumns = `id, name, expected_date, status, aircraft_code`

func scanStage(s interface{ Scan(...any) error }, st *models.Stage) error {
	var expected int64
	if err := s.Scan(&st.ID, &st.Name, &expected, &st.Status, &st.AircraftCode); err != nil {
		return err
	}
	st.ExpectedDate = fromMillis(expected)
	return nil
}

func (r *SQLiteRepo) CreateStage(ctx context.Context, s *models.Stage) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("stage is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO stages (name, expected_date, status, aircraft_code) VALUES (?, ?, ?, ?)`, s.Name, toMillis(s.ExpectedDate), s.Status, s.AircraftCode)
	if err != nil {
		return 0, dbErr(err, "insert stage")
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetStage(ctx context.Context, id int64) (*models.Stage, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+stageColumns+` FROM stages WHERE id = ?`, id)
	var s models.Stage
	if err := scanStage(row, &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, dbErr(err, "get stage")
	}

	assignees, err := r.assignees(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	s.Employees = nonNil(assignees[id])

	return &s, nil
}

func (r *SQLiteRepo) ListStages(ctx context.Context, aircraftCode *int64) ([]models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages`
	var args []any
	if aircraftCode != nil {
		query += ` WHERE aircraft_code = ?`
		args = append(args, *aircraftCode)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbErr(err, "list stages")
	}
	defer rows.Close()

	var out []models.Stage
	var ids []int64
	for rows.Next() {
		var s models.Stage
		if err := scanStage(rows, &s); err != nil {
			return nil, dbErr(err, "scan stage")
		}
		out = append(out, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "iterate stages")
	}
	rows.Close()

	if len(ids) == 0 {
		return out, nil
	}

	assignees, err := r.assignees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Employees = nonNil(assignees[out[i].ID])
	}

	return out, nil
}

// assignees resolves the employees of each stage in assignment order.
func (r *SQLiteRepo) assignees(ctx context.Context, stageIDs []int64) (map[int64][]models.Assignee, error) {
	args := make([]any, len(stageIDs))
	for i, id := range stageIDs {
		args[i] = id
	}

	rows, err := r.q.QueryContext(ctx, `SELECT se.stage_id, e.id, e.name, e.role
		FROM stage_employees se
		JOIN employees e ON e.id = se.employee_id
		WHERE se.stage_id IN (`+placeholders(len(stageIDs))+`)
		ORDER BY se.stage_id, se.position`, args...)
	if err != nil {
		return nil, dbErr(err, "list stage employees")
	}
	defer rows.Close()

	out := make(map[int64][]models.Assignee, len(stageIDs))
	for rows.Next() {
		var stageID int64
		var a models.Assignee
		if err := rows.Scan(&stageID, &a.EmployeeID, &a.Name, &a.Role); err != nil {
			return nil, dbErr(err, "scan stage employee")
		}
		out[stageID] = append(out[stageID], a)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateStage(ctx context.Context, s *models.Stage) error {
	if s == nil {
		return fmt.Errorf("stage is nil")
	}

	res, err := r.q.ExecContext(ctx, `UPDATE stages SET name = ?, expected_date = ?, status = ?, aircraft_code = ?
		WHERE id = ? AND (status <> 'Completed' OR ? = 'Completed')`,
		s.Name, toMillis(s.ExpectedDate), s.Status, s.AircraftCode, s.ID, s.Status)
	if err != nil {
		return dbErr(err, "update stage")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err, "rows affected")
	}
	if n > 0 {
		return nil
	}

	// nothing matched: either the row is gone or it is Completed
	current, err := r.GetStage(ctx, s.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return notFound("stage", s.ID)
	}
	return ierr.NewError(fmt.Sprintf("stage %d is completed", s.ID)).
		WithHint("stage already completed, cannot reopen").
		Mark(ierr.ErrConflict)
}

func (r *SQLiteRepo) DeleteStage(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM stage_employees WHERE stage_id = ?`, id); err != nil {
		return dbErr(err, "delete stage employees")
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return dbErr(err, "delete stage")
	}

	return affected(res, "stage", id)
}

func (r *SQLiteRepo) ReplaceAssignments(ctx context.Context, stageID int64, employeeIDs []int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM stage_employees WHERE stage_id = ?`, stageID); err != nil {
		return dbErr(err, "clear stage employees")
	}

	for pos, eid := range employeeIDs {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO stage_employees (stage_id, employee_id, position) VALUES (?, ?, ?)`, stageID, eid, pos); err != nil {
			return dbErr(err, "insert stage employee")
		}
	}

	return nil
}

func nonNil(a []models.Assignee) []models.Assignee {
	if a == nil {
		return []models.Assignee{}
	}
	return a
}
