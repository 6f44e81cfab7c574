package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/aerocode/pkg/models"
)

const employeeColumns = `id, name, document, role, login, password_hash`

func scanEmployee(s interface{ Scan(...any) error }, e *models.Employee) error {
	return s.Scan(&e.ID, &e.Name, &e.Document, &e.Role, &e.Login, &e.PasswordHash)
}

// CreateEmployee inserts the employee together with its address and phone.
// Callers wrap it in WithTx so the three rows land atomically.
func (r *SQLiteRepo) CreateEmployee(ctx context.Context, e *models.Employee) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("employee is nil")
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO employees (name, document, role, login, password_hash) VALUES (?, ?, ?, ?, ?)`, e.Name, e.Document, e.Role, e.Login, e.PasswordHash)
	if err != nil {
		return 0, dbErr(err, "insert employee")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbErr(err, "employee id")
	}

	if e.Address != nil {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO employee_addresses (employee_id, street, number, neighborhood, city) VALUES (?, ?, ?, ?, ?)`, id, e.Address.Street, e.Address.Number, e.Address.Neighborhood, e.Address.City); err != nil {
			return 0, dbErr(err, "insert employee address")
		}
	}
	if e.Phone != nil {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO employee_phones (employee_id, area_code, number) VALUES (?, ?, ?)`, id, e.Phone.AreaCode, e.Phone.Number); err != nil {
			return 0, dbErr(err, "insert employee phone")
		}
	}

	return id, nil
}

func (r *SQLiteRepo) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return r.loadEmployee(ctx, row)
}

func (r *SQLiteRepo) GetEmployeeByLogin(ctx context.Context, login string) (*models.Employee, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE login = ?`, login)
	return r.loadEmployee(ctx, row)
}

func (r *SQLiteRepo) loadEmployee(ctx context.Context, row *sql.Row) (*models.Employee, error) {
	var e models.Employee
	if err := scanEmployee(row, &e); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, dbErr(err, "get employee")
	}

	var a models.Address
	err := r.q.QueryRowContext(ctx, `SELECT id, employee_id, street, number, neighborhood, city FROM employee_addresses WHERE employee_id = ?`, e.ID).
		Scan(&a.ID, &a.EmployeeID, &a.Street, &a.Number, &a.Neighborhood, &a.City)
	switch {
	case err == nil:
		e.Address = &a
	case err != sql.ErrNoRows:
		return nil, dbErr(err, "get employee address")
	}

	var p models.Phone
	err = r.q.QueryRowContext(ctx, `SELECT id, employee_id, area_code, number FROM employee_phones WHERE employee_id = ?`, e.ID).
		Scan(&p.ID, &p.EmployeeID, &p.AreaCode, &p.Number)
	switch {
	case err == nil:
		e.Phone = &p
	case err != sql.ErrNoRows:
		return nil, dbErr(err, "get employee phone")
	}

	return &e, nil
}

func (r *SQLiteRepo) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, dbErr(err, "list employees")
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, dbErr(err, "scan employee")
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// UpdateEmployee rewrites the employee row and upserts address and phone.
func (r *SQLiteRepo) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	if e == nil {
		return fmt.Errorf("employee is nil")
	}

	res, err := r.q.ExecContext(ctx, `UPDATE employees SET name = ?, document = ?, role = ?, login = ?, password_hash = ? WHERE id = ?`, e.Name, e.Document, e.Role, e.Login, e.PasswordHash, e.ID)
	if err != nil {
		return dbErr(err, "update employee")
	}
	if err := affected(res, "employee", e.ID); err != nil {
		return err
	}

	if e.Address != nil {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO employee_addresses (employee_id, street, number, neighborhood, city) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(employee_id) DO UPDATE SET street = excluded.street, number = excluded.number, neighborhood = excluded.neighborhood, city = excluded.city`,
			e.ID, e.Address.Street, e.Address.Number, e.Address.Neighborhood, e.Address.City); err != nil {
			return dbErr(err, "upsert employee address")
		}
	}
	if e.Phone != nil {
		if _, err := r.q.ExecContext(ctx, `INSERT INTO employee_phones (employee_id, area_code, number) VALUES (?, ?, ?)
			ON CONFLICT(employee_id) DO UPDATE SET area_code = excluded.area_code, number = excluded.number`,
			e.ID, e.Phone.AreaCode, e.Phone.Number); err != nil {
			return dbErr(err, "upsert employee phone")
		}
	}

	return nil
}

func (r *SQLiteRepo) DeleteEmployee(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM employee_addresses WHERE employee_id = ?`, id); err != nil {
		return dbErr(err, "delete employee address")
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM employee_phones WHERE employee_id = ?`, id); err != nil {
		return dbErr(err, "delete employee phone")
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return dbErr(err, "delete employee")
	}

	return affected(res, "employee", id)
}

func (r *SQLiteRepo) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, dbErr(err, "count employees")
	}
	return n, nil
}

func (r *SQLiteRepo) CountAssignments(ctx context.Context, employeeID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stage_employees WHERE employee_id = ?`, employeeID).Scan(&n); err != nil {
		return 0, dbErr(err, "count employee assignments")
	}
	return n, nil
}

func (r *SQLiteRepo) MissingEmployees(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM employees WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, dbErr(err, "lookup employees")
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, dbErr(err, "scan employee id")
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "iterate employee ids")
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
