package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"competency-hub/internal/domain/project"
	"competency-hub/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ProjectDetails struct {
	Project     project.Project
	Slots       []project.Slot
	Assignments []project.Assignment
}

type ProjectUsecase interface {
	List(ctx context.Context) ([]project.Project, error)
	Details(ctx context.Context, id int64) (ProjectDetails, error)
	Edit(ctx context.Context, id int64, in ProjectEditInput) (ProjectDetails, error)
	Close(ctx context.Context, id int64) (project.Project, error)
	ReleaseSlot(ctx context.Context, projectID, slotID int64) error
}

type Projects struct {
	projects    repository.ProjectRepository
	assignments repository.AssignmentRepository
	refs        projectRefs
	logger      zerolog.Logger

	now func() time.Time
}

func NewProjectUsecase(
	projects repository.ProjectRepository,
	assignments repository.AssignmentRepository,
	employees repository.EmployeeRepository,
	skillTypes repository.SkillTypeRepository,
	logger zerolog.Logger,
) *Projects {
	return &Projects{
		projects:    projects,
		assignments: assignments,
		refs:        projectRefs{employees: employees, skillTypes: skillTypes},
		logger:      logger.With().Str("component", "projects").Logger(),
		now:         time.Now,
	}
}

func (u *Projects) List(ctx context.Context) ([]project.Project, error) {
	items, err := u.projects.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// Details loads the project, its slots and its assignments concurrently.
func (u *Projects) Details(ctx context.Context, id int64) (ProjectDetails, error) {
	var out ProjectDetails

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := u.projects.FindByID(gctx, id)
		out.Project = p
		return err
	})
	g.Go(func() error {
		slots, err := u.projects.ListSlots(gctx, id)
		out.Slots = slots
		return err
	})
	g.Go(func() error {
		items, err := u.assignments.ListByProject(gctx, id)
		out.Assignments = items
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ProjectDetails{}, ErrNotFound
		}
		return ProjectDetails{}, ErrInternal
	}
	return out, nil
}

// Edit updates the project fields and its slot requirements in one transaction.
// A closed project is read-only.
func (u *Projects) Edit(ctx context.Context, id int64, in ProjectEditInput) (ProjectDetails, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return ProjectDetails{}, err
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return ProjectDetails{}, err
	}
	groups := make([][]RequirementInput, 0, len(in.Slots))
	for _, s := range in.Slots {
		groups = append(groups, s.Requirements)
	}
	if err := u.refs.check(ctx, in.ManagerID, groups, "slots"); err != nil {
		return ProjectDetails{}, err
	}

	err := u.projects.InTx(ctx, func(tx repository.ProjectTx) error {
		current, err := tx.LockProject(ctx, id)
		if err != nil {
			return err
		}
		if current.Closed() {
			return ErrProjectClosed
		}

		err = tx.UpdateProject(ctx, project.Project{
			ID:        id,
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			ManagerID: in.ManagerID,
		})
		if err != nil {
			return err
		}

		existing, err := tx.ListSlots(ctx, id)
		if err != nil {
			return err
		}
		owned := make(map[int64]bool, len(existing))
		for _, s := range existing {
			owned[s.ID] = true
		}

		for i, s := range in.Slots {
			reqs := toVacancySkills(s.Requirements)
			if s.ID == 0 {
				slotID, err := tx.CreateSlot(ctx, project.Slot{ProjectID: id, RoleName: trimRoleName(s.RoleName)})
				if err != nil {
					return err
				}
				if err := tx.AddRequirements(ctx, slotID, reqs); err != nil {
					return err
				}
				continue
			}
			if !owned[s.ID] {
				return NewValidationError(fmt.Sprintf("slots[%d].id", i), "slot does not belong to this project")
			}
			if err := tx.ReplaceRequirements(ctx, s.ID, reqs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrProjectClosed):
			return ProjectDetails{}, err
		case errors.Is(err, repository.ErrNotFound):
			return ProjectDetails{}, ErrNotFound
		case errors.Is(err, repository.ErrNoRowsAffected):
			return ProjectDetails{}, resolveStale(ctx, err, id, u.projects.Exists)
		case isCheckViolation(err):
			return ProjectDetails{}, NewValidationError("end_date", msgEndBeforeStart)
		case isForeignKeyViolation(err):
			return ProjectDetails{}, NewValidationError(FormKey, "a referenced employee or skill type no longer exists")
		}
		u.logger.Error().Err(err).Int64("project_id", id).Msg("project edit rolled back")
		return ProjectDetails{}, ErrInternal
	}
	return u.Details(ctx, id)
}

// Close sets the end date to today. Closed projects accept ratings and reject role changes.
func (u *Projects) Close(ctx context.Context, id int64) (project.Project, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.Project{}, ErrNotFound
		}
		return project.Project{}, ErrInternal
	}
	if p.Closed() {
		return project.Project{}, ErrProjectClosed
	}

	today := truncateDay(u.now())
	if today.Before(p.StartDate) {
		return project.Project{}, NewValidationError("end_date", "a project cannot be closed before it starts")
	}

	if err := u.projects.Close(ctx, id, today); err != nil {
		return project.Project{}, resolveStale(ctx, err, id, u.projects.Exists)
	}
	p.EndDate = &today
	return p, nil
}

// ReleaseSlot clears the slot's employee and keeps its requirements, so a
// later backfill can fill it again.
func (u *Projects) ReleaseSlot(ctx context.Context, projectID, slotID int64) error {
	p, err := u.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	if p.Closed() {
		return ErrProjectClosed
	}

	if err := u.projects.ReleaseSlot(ctx, projectID, slotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
