package usecase

import (
	"context"
	"errors"
	"strings"

	"competency-hub/internal/domain/matching"
	"competency-hub/internal/domain/project"
	"competency-hub/internal/metrics"
	"competency-hub/internal/repository"
	"competency-hub/internal/ws"

	"github.com/rs/zerolog"
)

// StaffingResult reports the slots of a project after a staffing run.
type StaffingResult struct {
	Project project.Project
	Slots   []project.Slot
	Filled  int
	Vacant  int
}

type StaffingUsecase interface {
	CreateWithTeam(ctx context.Context, in ProjectInput) (StaffingResult, error)
	Backfill(ctx context.Context, projectID int64) (StaffingResult, error)
}

type Staffing struct {
	projects repository.ProjectRepository
	refs     projectRefs
	events   EventPublisher
	metrics  StaffingRecorder
	logger   zerolog.Logger
}

func NewStaffingUsecase(
	projects repository.ProjectRepository,
	employees repository.EmployeeRepository,
	skillTypes repository.SkillTypeRepository,
	events EventPublisher,
	recorder StaffingRecorder,
	logger zerolog.Logger,
) *Staffing {
	if events == nil {
		events = nopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Staffing{
		projects: projects,
		refs:     projectRefs{employees: employees, skillTypes: skillTypes},
		events:   events,
		metrics:  recorder,
		logger:   logger.With().Str("component", "staffing").Logger(),
	}
}

// CreateWithTeam persists the project and one slot per role inside a single
// transaction. Roles are matched in order against every employee except the
// manager; an employee fills at most one role. A role nobody can fill becomes
// a vacancy.
func (u *Staffing) CreateWithTeam(ctx context.Context, in ProjectInput) (StaffingResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return StaffingResult{}, err
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return StaffingResult{}, err
	}
	groups := make([][]RequirementInput, 0, len(in.Roles))
	for _, r := range in.Roles {
		groups = append(groups, r.Requirements)
	}
	if err := u.refs.check(ctx, in.ManagerID, groups, "roles"); err != nil {
		return StaffingResult{}, err
	}

	var res StaffingResult
	err := u.projects.InTx(ctx, func(tx repository.ProjectTx) error {
		p := project.Project{
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			ManagerID: in.ManagerID,
		}
		id, err := tx.CreateProject(ctx, p)
		if err != nil {
			return err
		}

		pool, err := tx.ListCandidates(ctx, in.ManagerID)
		if err != nil {
			return err
		}

		roles := make([][]matching.Requirement, 0, len(in.Roles))
		for _, r := range in.Roles {
			roles = append(roles, toMatchRequirements(r.Requirements))
		}

		for _, pl := range matching.Plan(pool, roles) {
			role := in.Roles[pl.Role]
			slotID, err := tx.CreateSlot(ctx, project.Slot{
				ProjectID:  id,
				EmployeeID: pl.EmployeeID,
				RoleName:   trimRoleName(role.RoleName),
			})
			if err != nil {
				return err
			}
			if err := tx.AddRequirements(ctx, slotID, toVacancySkills(role.Requirements)); err != nil {
				return err
			}
		}

		return u.collect(ctx, tx, id, &res)
	})
	u.metrics.StaffingRun(metrics.FlowCreate, err)
	if err != nil {
		u.logger.Error().Err(err).Str("project", in.Name).Msg("team creation rolled back")
		return StaffingResult{}, ErrStaffingFailed
	}

	u.metrics.StaffingSlots(metrics.FlowCreate, res.Filled, res.Vacant)
	u.events.Publish(ws.EventTeamStaffed, res.Project.ID, map[string]int{"filled": res.Filled, "vacant": res.Vacant})
	u.logger.Info().Int64("project_id", res.Project.ID).Int("filled", res.Filled).Int("vacant", res.Vacant).Msg("team created")
	return res, nil
}

// Backfill matches only the project's vacant slots. Filled slots are never
// touched and their employees are not candidates. With no vacancy the run
// commits without writing anything.
func (u *Staffing) Backfill(ctx context.Context, projectID int64) (StaffingResult, error) {
	var (
		res      StaffingResult
		assigned int
	)
	err := u.projects.InTx(ctx, func(tx repository.ProjectTx) error {
		p, err := tx.LockProject(ctx, projectID)
		if err != nil {
			return err
		}
		if p.Closed() {
			return ErrProjectClosed
		}

		slots, err := tx.ListSlots(ctx, projectID)
		if err != nil {
			return err
		}

		vacant := make([]project.Slot, 0, len(slots))
		excluded := make([]int64, 0, len(slots))
		for _, s := range slots {
			if s.Vacant() {
				vacant = append(vacant, s)
				continue
			}
			excluded = append(excluded, *s.EmployeeID)
		}

		if len(vacant) > 0 {
			pool, err := tx.ListCandidates(ctx, p.ManagerID)
			if err != nil {
				return err
			}

			roles := make([][]matching.Requirement, 0, len(vacant))
			for _, s := range vacant {
				roles = append(roles, s.MatchRequirements())
			}

			for _, pl := range matching.Plan(pool, roles, excluded...) {
				if !pl.Filled() {
					continue
				}
				if err := tx.AssignSlot(ctx, vacant[pl.Role].ID, *pl.EmployeeID); err != nil {
					return err
				}
				assigned++
			}
		}

		return u.collect(ctx, tx, projectID, &res)
	})
	u.metrics.StaffingRun(metrics.FlowBackfill, err)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return StaffingResult{}, ErrNotFound
		case errors.Is(err, ErrProjectClosed):
			return StaffingResult{}, ErrProjectClosed
		}
		u.logger.Error().Err(err).Int64("project_id", projectID).Msg("backfill rolled back")
		return StaffingResult{}, ErrStaffingFailed
	}

	u.metrics.StaffingSlots(metrics.FlowBackfill, assigned, res.Vacant)
	if assigned > 0 {
		u.events.Publish(ws.EventVacanciesBackfilled, projectID, map[string]int{"assigned": assigned, "vacant": res.Vacant})
	}
	u.logger.Info().Int64("project_id", projectID).Int("assigned", assigned).Int("vacant", res.Vacant).Msg("backfill done")
	return res, nil
}

func (u *Staffing) collect(ctx context.Context, tx repository.ProjectTx, projectID int64, res *StaffingResult) error {
	p, err := tx.LockProject(ctx, projectID)
	if err != nil {
		return err
	}
	slots, err := tx.ListSlots(ctx, projectID)
	if err != nil {
		return err
	}

	res.Project = p
	res.Slots = slots
	res.Filled, res.Vacant = 0, 0
	for _, s := range slots {
		if s.Vacant() {
			res.Vacant++
		} else {
			res.Filled++
		}
	}
	return nil
}
