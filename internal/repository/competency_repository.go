package repository

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/employee"

	"github.com/pkg/errors"
)

type CompetencyRepository interface {
	FindByID(ctx context.Context, id int64) (employee.Competency, error)
	PairExists(ctx context.Context, employeeID, skillTypeID int64) (bool, error)
	Create(ctx context.Context, c employee.Competency) (employee.Competency, error)
	UpdateLevel(ctx context.Context, id int64, level int) error
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Levels(ctx context.Context, employeeID int64) ([]int, error)
}

type PostgresCompetencyRepository struct {
	db database.DB
}

func NewPostgresCompetencyRepository(db database.DB) *PostgresCompetencyRepository {
	return &PostgresCompetencyRepository{db: db}
}

func listCompetencies(ctx context.Context, q database.Querier, employeeID int64) ([]employee.Competency, error) {
	rows, err := q.Query(ctx,
		`SELECT c.id, c.employee_id, c.skill_type_id, s.name, c.level
		 FROM competencies c
		 JOIN skill_types s ON s.id = c.skill_type_id
		 WHERE c.employee_id = $1
		 ORDER BY s.name_key ASC`,
		employeeID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list competencies")
	}
	defer rows.Close()

	out := make([]employee.Competency, 0)
	for rows.Next() {
		var c employee.Competency
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.SkillTypeID, &c.SkillName, &c.Level); err != nil {
			return nil, errors.Wrap(err, "scan competency")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list competencies")
	}
	return out, nil
}

func (r *PostgresCompetencyRepository) FindByID(ctx context.Context, id int64) (employee.Competency, error) {
	var c employee.Competency
	err := r.db.QueryRow(ctx,
		`SELECT c.id, c.employee_id, c.skill_type_id, s.name, c.level
		 FROM competencies c
		 JOIN skill_types s ON s.id = c.skill_type_id
		 WHERE c.id = $1`,
		id,
	).Scan(&c.ID, &c.EmployeeID, &c.SkillTypeID, &c.SkillName, &c.Level)
	if err != nil {
		if isNoRows(err) {
			return employee.Competency{}, ErrNotFound
		}
		return employee.Competency{}, errors.Wrap(err, "find competency")
	}
	return c, nil
}

func (r *PostgresCompetencyRepository) PairExists(ctx context.Context, employeeID, skillTypeID int64) (bool, error) {
	return exists(r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM competencies WHERE employee_id = $1 AND skill_type_id = $2)`,
		employeeID, skillTypeID,
	), "competency")
}

func (r *PostgresCompetencyRepository) Create(ctx context.Context, c employee.Competency) (employee.Competency, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO competencies (employee_id, skill_type_id, level) VALUES ($1, $2, $3) RETURNING id`,
		c.EmployeeID, c.SkillTypeID, c.Level,
	)
	if err := row.Scan(&c.ID); err != nil {
		return employee.Competency{}, errors.Wrap(err, "insert competency")
	}
	return c, nil
}

func (r *PostgresCompetencyRepository) UpdateLevel(ctx context.Context, id int64, level int) error {
	n, err := r.db.Exec(ctx, `UPDATE competencies SET level = $2 WHERE id = $1`, id, level)
	if err != nil {
		return errors.Wrap(err, "update competency")
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PostgresCompetencyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM competencies WHERE id = $1)`, id), "competency")
}

func (r *PostgresCompetencyRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM competencies WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete competency")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Levels returns every recorded level of the employee, in no particular skill order.
func (r *PostgresCompetencyRepository) Levels(ctx context.Context, employeeID int64) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT level FROM competencies WHERE employee_id = $1`, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list competency levels")
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var l int
		if err := rows.Scan(&l); err != nil {
			return nil, errors.Wrap(err, "scan competency level")
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list competency levels")
	}
	return out, nil
}
