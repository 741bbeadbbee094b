package usecase

import (
	"context"
	"errors"

	"competency-hub/internal/domain/employee"
	"competency-hub/internal/repository"
)

const msgCompetencyExists = "this employee already has a competency in this skill"

type CompetencyInput struct {
	EmployeeID  int64 `json:"employee_id" validate:"required,gt=0"`
	SkillTypeID int64 `json:"skill_type_id" validate:"required,gt=0"`
	Level       int   `json:"level" validate:"gte=1,lte=10"`
}

type CompetencyLevelInput struct {
	Level int `json:"level" validate:"gte=1,lte=10"`
}

type CompetencyUsecase interface {
	Get(ctx context.Context, id int64) (employee.Competency, error)
	Create(ctx context.Context, in CompetencyInput) (employee.Competency, error)
	UpdateLevel(ctx context.Context, id int64, in CompetencyLevelInput) (employee.Competency, error)
	Delete(ctx context.Context, id int64) error
}

type Competencies struct {
	repo       repository.CompetencyRepository
	employees  repository.EmployeeRepository
	skillTypes repository.SkillTypeRepository
}

func NewCompetencyUsecase(repo repository.CompetencyRepository, employees repository.EmployeeRepository, skillTypes repository.SkillTypeRepository) *Competencies {
	return &Competencies{repo: repo, employees: employees, skillTypes: skillTypes}
}

func (u *Competencies) Get(ctx context.Context, id int64) (employee.Competency, error) {
	c, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return employee.Competency{}, ErrNotFound
		}
		return employee.Competency{}, ErrInternal
	}
	return c, nil
}

func (u *Competencies) Create(ctx context.Context, in CompetencyInput) (employee.Competency, error) {
	if err := validateInput(in); err != nil {
		return employee.Competency{}, err
	}

	ok, err := u.employees.Exists(ctx, in.EmployeeID)
	if err != nil {
		return employee.Competency{}, ErrInternal
	}
	if !ok {
		return employee.Competency{}, NewValidationError("employee_id", "employee does not exist")
	}
	st, err := u.skillTypes.FindByID(ctx, in.SkillTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return employee.Competency{}, NewValidationError("skill_type_id", "skill type does not exist")
		}
		return employee.Competency{}, ErrInternal
	}

	dup, err := u.repo.PairExists(ctx, in.EmployeeID, in.SkillTypeID)
	if err != nil {
		return employee.Competency{}, ErrInternal
	}
	if dup {
		return employee.Competency{}, NewValidationError(FormKey, msgCompetencyExists)
	}

	created, err := u.repo.Create(ctx, employee.Competency{
		EmployeeID:  in.EmployeeID,
		SkillTypeID: in.SkillTypeID,
		Level:       in.Level,
	})
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return employee.Competency{}, NewValidationError(FormKey, msgCompetencyExists)
		case isForeignKeyViolation(err):
			return employee.Competency{}, NewValidationError(FormKey, "employee or skill type no longer exists")
		}
		return employee.Competency{}, ErrInternal
	}
	created.SkillName = st.Name
	return created, nil
}

func (u *Competencies) UpdateLevel(ctx context.Context, id int64, in CompetencyLevelInput) (employee.Competency, error) {
	if err := validateInput(in); err != nil {
		return employee.Competency{}, err
	}
	if err := u.repo.UpdateLevel(ctx, id, in.Level); err != nil {
		return employee.Competency{}, resolveStale(ctx, err, id, u.repo.Exists)
	}
	return u.Get(ctx, id)
}

func (u *Competencies) Delete(ctx context.Context, id int64) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}
