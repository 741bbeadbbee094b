package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"competency-hub/internal/domain/matching"
	"competency-hub/internal/domain/project"
	"competency-hub/internal/repository"
)

const msgEndBeforeStart = "must not be before start_date"

type RequirementInput struct {
	SkillTypeID int64 `json:"skill_type_id" validate:"required,gt=0"`
	Level       int   `json:"level" validate:"gte=1,lte=10"`
}

type RoleInput struct {
	RoleName     string             `json:"role_name" validate:"max=100"`
	Requirements []RequirementInput `json:"requirements" validate:"dive"`
}

// ProjectInput creates a project and staffs one slot per role, in order.
type ProjectInput struct {
	Name      string      `json:"name" validate:"required,max=200"`
	ManagerID int64       `json:"manager_id" validate:"required,gt=0"`
	StartDate time.Time   `json:"start_date" validate:"required"`
	EndDate   *time.Time  `json:"end_date"`
	Roles     []RoleInput `json:"roles" validate:"dive"`
}

// SlotEditInput with ID 0 adds a new vacancy. A positive ID replaces the
// requirements of an existing slot and leaves its employee untouched.
type SlotEditInput struct {
	ID           int64              `json:"id" validate:"gte=0"`
	RoleName     string             `json:"role_name" validate:"max=100"`
	Requirements []RequirementInput `json:"requirements" validate:"dive"`
}

type ProjectEditInput struct {
	Name      string          `json:"name" validate:"required,max=200"`
	ManagerID int64           `json:"manager_id" validate:"required,gt=0"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	EndDate   *time.Time      `json:"end_date"`
	Slots     []SlotEditInput `json:"slots" validate:"dive"`
}

func checkDates(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return NewValidationError("end_date", msgEndBeforeStart)
	}
	return nil
}

func toVacancySkills(reqs []RequirementInput) []project.VacancySkill {
	out := make([]project.VacancySkill, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, project.VacancySkill{SkillTypeID: r.SkillTypeID, Level: r.Level})
	}
	return out
}

func toMatchRequirements(reqs []RequirementInput) []matching.Requirement {
	out := make([]matching.Requirement, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, matching.Requirement{SkillTypeID: r.SkillTypeID, Level: r.Level})
	}
	return out
}

// projectRefs verifies that the manager and every referenced skill type exist.
type projectRefs struct {
	employees  repository.EmployeeRepository
	skillTypes repository.SkillTypeRepository
}

// check reports problems of requirement j in group i under "<groupKey>[i].requirements[j].skill_type_id".
func (r projectRefs) check(ctx context.Context, managerID int64, groups [][]RequirementInput, groupKey string) error {
	ok, err := r.employees.Exists(ctx, managerID)
	if err != nil {
		return ErrInternal
	}
	if !ok {
		return NewValidationError("manager_id", "manager does not exist")
	}

	known := map[int64]bool{}
	types, err := r.skillTypes.List(ctx)
	if err != nil {
		return ErrInternal
	}
	for _, st := range types {
		known[st.ID] = true
	}

	fields := map[string]string{}
	for i, reqs := range groups {
		seen := map[int64]bool{}
		for j, req := range reqs {
			key := fmt.Sprintf("%s[%d].requirements[%d].skill_type_id", groupKey, i, j)
			switch {
			case !known[req.SkillTypeID]:
				fields[key] = "skill type does not exist"
			case seen[req.SkillTypeID]:
				fields[key] = "skill type is listed twice"
			}
			seen[req.SkillTypeID] = true
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func trimRoleName(s string) string {
	return strings.TrimSpace(s)
}
