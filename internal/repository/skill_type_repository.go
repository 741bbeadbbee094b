package repository

import (
	"context"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/skill"

	"github.com/pkg/errors"
)

type SkillTypeRepository interface {
	List(ctx context.Context) ([]skill.SkillType, error)
	FindByID(ctx context.Context, id int64) (skill.SkillType, error)
	NameTaken(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, s skill.SkillType) (skill.SkillType, error)
	CountCompetencies(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresSkillTypeRepository struct {
	db database.DB
}

func NewPostgresSkillTypeRepository(db database.DB) *PostgresSkillTypeRepository {
	return &PostgresSkillTypeRepository{db: db}
}

func (r *PostgresSkillTypeRepository) List(ctx context.Context) ([]skill.SkillType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM skill_types ORDER BY name_key ASC, id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list skill types")
	}
	defer rows.Close()

	out := make([]skill.SkillType, 0)
	for rows.Next() {
		var s skill.SkillType
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, errors.Wrap(err, "scan skill type")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list skill types")
	}
	return out, nil
}

func (r *PostgresSkillTypeRepository) FindByID(ctx context.Context, id int64) (skill.SkillType, error) {
	var s skill.SkillType
	if err := r.db.QueryRow(ctx, `SELECT id, name FROM skill_types WHERE id = $1`, id).Scan(&s.ID, &s.Name); err != nil {
		if isNoRows(err) {
			return skill.SkillType{}, ErrNotFound
		}
		return skill.SkillType{}, errors.Wrap(err, "find skill type")
	}
	return s, nil
}

// NameTaken compares case-insensitively through the folded name key.
func (r *PostgresSkillTypeRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	return exists(r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM skill_types WHERE name_key = $1)`,
		skill.NameKey(name),
	), "skill type name")
}

func (r *PostgresSkillTypeRepository) Create(ctx context.Context, s skill.SkillType) (skill.SkillType, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO skill_types (name, name_key) VALUES ($1, $2) RETURNING id`,
		s.Name, skill.NameKey(s.Name),
	)
	if err := row.Scan(&s.ID); err != nil {
		return skill.SkillType{}, errors.Wrap(err, "insert skill type")
	}
	return s, nil
}

func (r *PostgresSkillTypeRepository) CountCompetencies(ctx context.Context, id int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM competencies WHERE skill_type_id = $1`, id).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count competencies")
	}
	return n, nil
}

func (r *PostgresSkillTypeRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM skill_types WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete skill type")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
