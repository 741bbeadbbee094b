package repository

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/employee"

	"github.com/pkg/errors"
)

type EmployeeRepository interface {
	List(ctx context.Context) ([]employee.Employee, error)
	FindByID(ctx context.Context, id int64) (employee.Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
	NationalIDTaken(ctx context.Context, nationalID string, exceptID int64) (bool, error)
	Create(ctx context.Context, e employee.Employee) (employee.Employee, error)
	Update(ctx context.Context, e employee.Employee) error
	Delete(ctx context.Context, id int64) error
}

type PostgresEmployeeRepository struct {
	db database.DB
}

func NewPostgresEmployeeRepository(db database.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

const employeeColumns = `id, first_name, last_name, national_id, date_of_birth, phone_number, email`

func scanEmployee(row interface{ Scan(dest ...any) error }) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.NationalID, &e.DateOfBirth, &e.PhoneNumber, &e.Email)
	return e, err
}

func (r *PostgresEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY last_name ASC, first_name ASC, id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list employees")
	}
	defer rows.Close()

	out := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan employee")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list employees")
	}
	return out, nil
}

// FindByID loads the employee together with its competencies and their skill names.
func (r *PostgresEmployeeRepository) FindByID(ctx context.Context, id int64) (employee.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return employee.Employee{}, ErrNotFound
		}
		return employee.Employee{}, errors.Wrap(err, "find employee")
	}

	comps, err := listCompetencies(ctx, r.db, id)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Competencies = comps
	return e, nil
}

func (r *PostgresEmployeeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id), "employee")
}

// NationalIDTaken reports whether another employee than exceptID holds nationalID.
func (r *PostgresEmployeeRepository) NationalIDTaken(ctx context.Context, nationalID string, exceptID int64) (bool, error) {
	return exists(r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE national_id = $1 AND id <> $2)`,
		nationalID, exceptID,
	), "national id")
}

func (r *PostgresEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO employees (first_name, last_name, national_id, date_of_birth, phone_number, email)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		e.FirstName, e.LastName, e.NationalID, e.DateOfBirth, e.PhoneNumber, e.Email,
	)
	if err := row.Scan(&e.ID); err != nil {
		return employee.Employee{}, errors.Wrap(err, "insert employee")
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) Update(ctx context.Context, e employee.Employee) error {
	n, err := r.db.Exec(ctx,
		`UPDATE employees
		 SET first_name = $2, last_name = $3, national_id = $4, date_of_birth = $5, phone_number = $6, email = $7
		 WHERE id = $1`,
		e.ID, e.FirstName, e.LastName, e.NationalID, e.DateOfBirth, e.PhoneNumber, e.Email,
	)
	if err != nil {
		return errors.Wrap(err, "update employee")
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PostgresEmployeeRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete employee")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
