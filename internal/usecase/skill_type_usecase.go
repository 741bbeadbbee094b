package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"
)

const (
	skillTypesCacheKey = "skill_types:list"

	msgSkillNameTaken = "a skill type with this name already exists"
)

type SkillTypeInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// DeleteCheck describes whether a skill type can be removed.
type DeleteCheck struct {
	SkillType  skill.SkillType
	References int
	Blocked    bool
	Message    string
}

type SkillTypeUsecase interface {
	List(ctx context.Context) ([]skill.SkillType, error)
	Create(ctx context.Context, in SkillTypeInput) (skill.SkillType, error)
	DeleteCheck(ctx context.Context, id int64) (DeleteCheck, error)
	Delete(ctx context.Context, id int64) error
}

type SkillTypes struct {
	repo  repository.SkillTypeRepository
	cache JSONCache
}

func NewSkillTypeUsecase(repo repository.SkillTypeRepository, cache JSONCache) *SkillTypes {
	if cache == nil {
		cache = nopCache{}
	}
	return &SkillTypes{repo: repo, cache: cache}
}

func (u *SkillTypes) List(ctx context.Context) ([]skill.SkillType, error) {
	var cached []skill.SkillType
	if ok, err := u.cache.GetJSON(ctx, skillTypesCacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	_ = u.cache.SetJSON(ctx, skillTypesCacheKey, items, 0)
	return items, nil
}

func (u *SkillTypes) Create(ctx context.Context, in SkillTypeInput) (skill.SkillType, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return skill.SkillType{}, err
	}

	taken, err := u.repo.NameTaken(ctx, in.Name)
	if err != nil {
		return skill.SkillType{}, ErrInternal
	}
	if taken {
		return skill.SkillType{}, NewValidationError("name", msgSkillNameTaken)
	}

	created, err := u.repo.Create(ctx, skill.SkillType{Name: in.Name})
	if err != nil {
		if isUniqueViolation(err) {
			return skill.SkillType{}, NewValidationError("name", msgSkillNameTaken)
		}
		return skill.SkillType{}, ErrInternal
	}
	u.invalidate(ctx)
	return created, nil
}

func (u *SkillTypes) DeleteCheck(ctx context.Context, id int64) (DeleteCheck, error) {
	st, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return DeleteCheck{}, ErrNotFound
		}
		return DeleteCheck{}, ErrInternal
	}

	n, err := u.repo.CountCompetencies(ctx, id)
	if err != nil {
		return DeleteCheck{}, ErrInternal
	}

	out := DeleteCheck{SkillType: st, References: n}
	if n > 0 {
		out.Blocked = true
		out.Message = fmt.Sprintf("skill type %q is assigned to %d competencies and cannot be deleted", st.Name, n)
	}
	return out, nil
}

func (u *SkillTypes) Delete(ctx context.Context, id int64) error {
	check, err := u.DeleteCheck(ctx, id)
	if err != nil {
		return err
	}
	if check.Blocked {
		return NewValidationError(FormKey, check.Message)
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return NewValidationError(FormKey, fmt.Sprintf("skill type %q is still referenced and cannot be deleted", check.SkillType.Name))
		}
		return ErrInternal
	}
	u.invalidate(ctx)
	return nil
}

func (u *SkillTypes) invalidate(ctx context.Context) {
	_ = u.cache.Delete(ctx, skillTypesCacheKey)
}
