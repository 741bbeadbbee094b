package repository

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/project"
	"competency-hub/internal/domain/rating"

	"github.com/pkg/errors"
)

// PendingProject is a closed project with at least one unrated assignment.
type PendingProject struct {
	Project     project.Project
	Assignments int
	Unrated     int
}

type RatingRepository interface {
	ExistsForAssignment(ctx context.Context, assignmentID int64) (bool, error)
	Create(ctx context.Context, r rating.MonthlyRating) (rating.MonthlyRating, error)
	ListByProject(ctx context.Context, projectID int64) (map[int64]rating.MonthlyRating, error)
	PendingProjects(ctx context.Context) ([]PendingProject, error)
}

type PostgresRatingRepository struct {
	db database.DB
}

func NewPostgresRatingRepository(db database.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

func (r *PostgresRatingRepository) ExistsForAssignment(ctx context.Context, assignmentID int64) (bool, error) {
	return exists(r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM monthly_ratings WHERE project_assignment_id = $1)`,
		assignmentID,
	), "rating")
}

func (r *PostgresRatingRepository) Create(ctx context.Context, m rating.MonthlyRating) (rating.MonthlyRating, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO monthly_ratings (project_assignment_id, score, comment, date) VALUES ($1, $2, $3, $4) RETURNING id`,
		m.AssignmentID, m.Score, m.Comment, m.Date,
	).Scan(&m.ID)
	if err != nil {
		return rating.MonthlyRating{}, errors.Wrap(err, "insert rating")
	}
	return m, nil
}

// ListByProject returns the project's ratings keyed by assignment id.
func (r *PostgresRatingRepository) ListByProject(ctx context.Context, projectID int64) (map[int64]rating.MonthlyRating, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mr.id, mr.project_assignment_id, mr.score, COALESCE(mr.comment, ''), mr.date
		 FROM monthly_ratings mr
		 JOIN project_assignments pa ON pa.id = mr.project_assignment_id
		 WHERE pa.project_id = $1`,
		projectID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list ratings")
	}
	defer rows.Close()

	out := map[int64]rating.MonthlyRating{}
	for rows.Next() {
		var m rating.MonthlyRating
		if err := rows.Scan(&m.ID, &m.AssignmentID, &m.Score, &m.Comment, &m.Date); err != nil {
			return nil, errors.Wrap(err, "scan rating")
		}
		out[m.AssignmentID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list ratings")
	}
	return out, nil
}

func (r *PostgresRatingRepository) PendingProjects(ctx context.Context) ([]PendingProject, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.name, p.start_date, p.end_date, p.manager_id, m.first_name || ' ' || m.last_name,
			COUNT(pa.id), COUNT(pa.id) FILTER (WHERE mr.id IS NULL)
		 FROM projects p
		 JOIN employees m ON m.id = p.manager_id
		 JOIN project_assignments pa ON pa.project_id = p.id
		 LEFT JOIN monthly_ratings mr ON mr.project_assignment_id = pa.id
		 WHERE p.end_date IS NOT NULL
		 GROUP BY p.id, m.first_name, m.last_name
		 HAVING COUNT(pa.id) FILTER (WHERE mr.id IS NULL) > 0
		 ORDER BY p.end_date DESC, p.id ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list pending projects")
	}
	defer rows.Close()

	out := make([]PendingProject, 0)
	for rows.Next() {
		var pp PendingProject
		p := &pp.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.ManagerID, &p.ManagerName, &pp.Assignments, &pp.Unrated); err != nil {
			return nil, errors.Wrap(err, "scan pending project")
		}
		out = append(out, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list pending projects")
	}
	return out, nil
}
