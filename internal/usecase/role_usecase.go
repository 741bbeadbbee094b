package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"competency-hub/internal/domain/employee"
	"competency-hub/internal/domain/project"
	"competency-hub/internal/repository"
)

type AssignInput struct {
	EmployeeID int64     `json:"employee_id" validate:"required,gt=0"`
	Role       string    `json:"role" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
}

type EditRoleInput struct {
	Role string `json:"role" validate:"required"`
}

type ProjectAssignments struct {
	Project     project.Project
	Assignments []project.Assignment
}

type RoleUsecase interface {
	ValidateCompetence(ctx context.Context, employeeID int64, role project.Role) (bool, error)
	List(ctx context.Context, projectID int64) (ProjectAssignments, error)
	AvailableEmployees(ctx context.Context, projectID int64) ([]employee.Employee, error)
	Assign(ctx context.Context, projectID int64, in AssignInput) (project.Assignment, error)
	EditRole(ctx context.Context, assignmentID int64, in EditRoleInput) (project.Assignment, error)
	Remove(ctx context.Context, assignmentID int64) error
}

type Roles struct {
	assignments  repository.AssignmentRepository
	projects     repository.ProjectRepository
	employees    repository.EmployeeRepository
	competencies repository.CompetencyRepository
}

func NewRoleUsecase(
	assignments repository.AssignmentRepository,
	projects repository.ProjectRepository,
	employees repository.EmployeeRepository,
	competencies repository.CompetencyRepository,
) *Roles {
	return &Roles{assignments: assignments, projects: projects, employees: employees, competencies: competencies}
}

// ValidateCompetence reports whether any recorded competency of the employee
// reaches the role's minimum level. Which skill reaches it does not matter.
func (u *Roles) ValidateCompetence(ctx context.Context, employeeID int64, role project.Role) (bool, error) {
	levels, err := u.competencies.Levels(ctx, employeeID)
	if err != nil {
		return false, ErrInternal
	}
	return role.Eligible(levels), nil
}

func (u *Roles) List(ctx context.Context, projectID int64) (ProjectAssignments, error) {
	p, err := u.project(ctx, projectID)
	if err != nil {
		return ProjectAssignments{}, err
	}
	items, err := u.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return ProjectAssignments{}, ErrInternal
	}
	return ProjectAssignments{Project: p, Assignments: items}, nil
}

func (u *Roles) AvailableEmployees(ctx context.Context, projectID int64) ([]employee.Employee, error) {
	if _, err := u.openProject(ctx, projectID); err != nil {
		return nil, err
	}
	items, err := u.assignments.AvailableEmployees(ctx, projectID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Roles) Assign(ctx context.Context, projectID int64, in AssignInput) (project.Assignment, error) {
	if _, err := u.openProject(ctx, projectID); err != nil {
		return project.Assignment{}, err
	}
	if err := validateInput(in); err != nil {
		return project.Assignment{}, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return project.Assignment{}, err
	}

	ok, err := u.employees.Exists(ctx, in.EmployeeID)
	if err != nil {
		return project.Assignment{}, ErrInternal
	}
	if !ok {
		return project.Assignment{}, NewValidationError("employee_id", "employee does not exist")
	}

	if err := u.requireCompetence(ctx, in.EmployeeID, role); err != nil {
		return project.Assignment{}, err
	}

	created, err := u.assignments.Create(ctx, project.Assignment{
		ProjectID:  projectID,
		EmployeeID: in.EmployeeID,
		Role:       role,
		StartDate:  in.StartDate,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return project.Assignment{}, NewValidationError(FormKey, "project or employee no longer exists")
		}
		return project.Assignment{}, ErrInternal
	}
	return u.get(ctx, created.ID)
}

func (u *Roles) EditRole(ctx context.Context, assignmentID int64, in EditRoleInput) (project.Assignment, error) {
	a, err := u.get(ctx, assignmentID)
	if err != nil {
		return project.Assignment{}, err
	}
	if _, err := u.openProject(ctx, a.ProjectID); err != nil {
		return project.Assignment{}, err
	}
	if err := validateInput(in); err != nil {
		return project.Assignment{}, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return project.Assignment{}, err
	}
	if err := u.requireCompetence(ctx, a.EmployeeID, role); err != nil {
		return project.Assignment{}, err
	}

	if err := u.assignments.UpdateRole(ctx, assignmentID, role); err != nil {
		return project.Assignment{}, resolveStale(ctx, err, assignmentID, u.assignments.Exists)
	}
	return u.get(ctx, assignmentID)
}

func (u *Roles) Remove(ctx context.Context, assignmentID int64) error {
	a, err := u.get(ctx, assignmentID)
	if err != nil {
		return err
	}
	if _, err := u.openProject(ctx, a.ProjectID); err != nil {
		return err
	}
	if err := u.assignments.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Roles) requireCompetence(ctx context.Context, employeeID int64, role project.Role) error {
	ok, err := u.ValidateCompetence(ctx, employeeID, role)
	if err != nil {
		return err
	}
	if !ok {
		return NewValidationError(FormKey, fmt.Sprintf("employee lacks the competency required for role %s", role))
	}
	return nil
}

func (u *Roles) get(ctx context.Context, id int64) (project.Assignment, error) {
	a, err := u.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.Assignment{}, ErrNotFound
		}
		return project.Assignment{}, ErrInternal
	}
	return a, nil
}

func (u *Roles) project(ctx context.Context, id int64) (project.Project, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.Project{}, ErrNotFound
		}
		return project.Project{}, ErrInternal
	}
	return p, nil
}

func (u *Roles) openProject(ctx context.Context, id int64) (project.Project, error) {
	p, err := u.project(ctx, id)
	if err != nil {
		return project.Project{}, err
	}
	if p.Closed() {
		return project.Project{}, ErrProjectClosed
	}
	return p, nil
}

func parseRole(s string) (project.Role, error) {
	role, err := project.ParseRole(strings.TrimSpace(s))
	if err != nil {
		names := make([]string, 0, len(project.Roles()))
		for _, r := range project.Roles() {
			names = append(names, string(r))
		}
		return "", NewValidationError("role", "must be one of: "+strings.Join(names, ", "))
	}
	return role, nil
}
