package repository

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/employee"
	"competency-hub/internal/domain/project"

	"github.com/pkg/errors"
)

type AssignmentRepository interface {
	ListByProject(ctx context.Context, projectID int64) ([]project.Assignment, error)
	FindByID(ctx context.Context, id int64) (project.Assignment, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, a project.Assignment) (project.Assignment, error)
	UpdateRole(ctx context.Context, id int64, role project.Role) error
	Delete(ctx context.Context, id int64) error
	AvailableEmployees(ctx context.Context, projectID int64) ([]employee.Employee, error)
}

type PostgresAssignmentRepository struct {
	db database.DB
}

func NewPostgresAssignmentRepository(db database.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

const assignmentSelect = `SELECT pa.id, pa.project_id, pa.employee_id, e.first_name || ' ' || e.last_name, pa.role,
		pa.start_date, pa.end_date, EXISTS(SELECT 1 FROM monthly_ratings mr WHERE mr.project_assignment_id = pa.id)
	FROM project_assignments pa
	JOIN employees e ON e.id = pa.employee_id`

func scanAssignment(row interface{ Scan(dest ...any) error }) (project.Assignment, error) {
	var (
		a    project.Assignment
		role string
	)
	err := row.Scan(&a.ID, &a.ProjectID, &a.EmployeeID, &a.EmployeeName, &role, &a.StartDate, &a.EndDate, &a.Rated)
	a.Role = project.Role(role)
	return a, err
}

func (r *PostgresAssignmentRepository) ListByProject(ctx context.Context, projectID int64) ([]project.Assignment, error) {
	rows, err := r.db.Query(ctx, assignmentSelect+` WHERE pa.project_id = $1 ORDER BY pa.id ASC`, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "list assignments")
	}
	defer rows.Close()

	out := make([]project.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan assignment")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list assignments")
	}
	return out, nil
}

func (r *PostgresAssignmentRepository) FindByID(ctx context.Context, id int64) (project.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx, assignmentSelect+` WHERE pa.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return project.Assignment{}, ErrNotFound
		}
		return project.Assignment{}, errors.Wrap(err, "find assignment")
	}
	return a, nil
}

func (r *PostgresAssignmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM project_assignments WHERE id = $1)`, id), "assignment")
}

func (r *PostgresAssignmentRepository) Create(ctx context.Context, a project.Assignment) (project.Assignment, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO project_assignments (project_id, employee_id, role, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.ProjectID, a.EmployeeID, string(a.Role), a.StartDate, a.EndDate,
	).Scan(&a.ID)
	if err != nil {
		return project.Assignment{}, errors.Wrap(err, "insert assignment")
	}
	return a, nil
}

func (r *PostgresAssignmentRepository) UpdateRole(ctx context.Context, id int64, role project.Role) error {
	n, err := r.db.Exec(ctx, `UPDATE project_assignments SET role = $2 WHERE id = $1`, id, string(role))
	if err != nil {
		return errors.Wrap(err, "update assignment role")
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PostgresAssignmentRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM project_assignments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete assignment")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AvailableEmployees lists employees with no open assignment in the project.
func (r *PostgresAssignmentRepository) AvailableEmployees(ctx context.Context, projectID int64) ([]employee.Employee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees e
		 WHERE NOT EXISTS (
			SELECT 1 FROM project_assignments pa
			WHERE pa.project_id = $1 AND pa.employee_id = e.id AND pa.end_date IS NULL
		 )
		 ORDER BY e.last_name ASC, e.first_name ASC, e.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list available employees")
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
		return nil, errors.Wrap(err, "list available employees")
	}
	return out, nil
}
