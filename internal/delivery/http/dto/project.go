package dto

import (
	"competency-hub/internal/domain/project"
	"competency-hub/internal/usecase"

	"github.com/ecodeclub/ekit/slice"
)

type RequirementRequest struct {
	SkillTypeID int64 `json:"skill_type_id"`
	Level       int   `json:"level"`
}

func requirementInputs(reqs []RequirementRequest) []usecase.RequirementInput {
	return slice.Map(reqs, func(_ int, r RequirementRequest) usecase.RequirementInput {
		return usecase.RequirementInput{SkillTypeID: r.SkillTypeID, Level: r.Level}
	})
}

type RoleRequest struct {
	RoleName     string               `json:"role_name"`
	Requirements []RequirementRequest `json:"requirements"`
}

type ProjectRequest struct {
	Name      string        `json:"name"`
	ManagerID int64         `json:"manager_id"`
	StartDate Date          `json:"start_date"`
	EndDate   *Date         `json:"end_date"`
	Roles     []RoleRequest `json:"roles"`
}

func (r ProjectRequest) Input() usecase.ProjectInput {
	return usecase.ProjectInput{
		Name:      r.Name,
		ManagerID: r.ManagerID,
		StartDate: r.StartDate.Time,
		EndDate:   r.EndDate.TimePtr(),
		Roles: slice.Map(r.Roles, func(_ int, role RoleRequest) usecase.RoleInput {
			return usecase.RoleInput{RoleName: role.RoleName, Requirements: requirementInputs(role.Requirements)}
		}),
	}
}

type SlotEditRequest struct {
	ID           int64                `json:"id"`
	RoleName     string               `json:"role_name"`
	Requirements []RequirementRequest `json:"requirements"`
}

type ProjectEditRequest struct {
	Name      string            `json:"name"`
	ManagerID int64             `json:"manager_id"`
	StartDate Date              `json:"start_date"`
	EndDate   *Date             `json:"end_date"`
	Slots     []SlotEditRequest `json:"slots"`
}

func (r ProjectEditRequest) Input() usecase.ProjectEditInput {
	return usecase.ProjectEditInput{
		Name:      r.Name,
		ManagerID: r.ManagerID,
		StartDate: r.StartDate.Time,
		EndDate:   r.EndDate.TimePtr(),
		Slots: slice.Map(r.Slots, func(_ int, s SlotEditRequest) usecase.SlotEditInput {
			return usecase.SlotEditInput{ID: s.ID, RoleName: s.RoleName, Requirements: requirementInputs(s.Requirements)}
		}),
	}
}

type ProjectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	StartDate   Date   `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Closed      bool   `json:"closed"`
	ManagerID   int64  `json:"manager_id"`
	ManagerName string `json:"manager_name,omitempty"`
}

func NewProjectResponse(p project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		StartDate:   NewDate(p.StartDate),
		EndDate:     DatePtr(p.EndDate),
		Closed:      p.Closed(),
		ManagerID:   p.ManagerID,
		ManagerName: p.ManagerName,
	}
}

func NewProjectList(items []project.Project) []ProjectResponse {
	return slice.Map(items, func(_ int, p project.Project) ProjectResponse {
		return NewProjectResponse(p)
	})
}

type RequirementResponse struct {
	SkillTypeID int64  `json:"skill_type_id"`
	SkillName   string `json:"skill_name"`
	Level       int    `json:"level"`
}

type SlotResponse struct {
	ID           int64                 `json:"id"`
	RoleName     string                `json:"role_name,omitempty"`
	EmployeeID   *int64                `json:"employee_id"`
	EmployeeName string                `json:"employee_name,omitempty"`
	Vacant       bool                  `json:"vacant"`
	Requirements []RequirementResponse `json:"requirements"`
}

func NewSlotList(items []project.Slot) []SlotResponse {
	return slice.Map(items, func(_ int, s project.Slot) SlotResponse {
		return SlotResponse{
			ID:           s.ID,
			RoleName:     s.RoleName,
			EmployeeID:   s.EmployeeID,
			EmployeeName: s.EmployeeName,
			Vacant:       s.Vacant(),
			Requirements: slice.Map(s.Requirements, func(_ int, r project.VacancySkill) RequirementResponse {
				return RequirementResponse{SkillTypeID: r.SkillTypeID, SkillName: r.SkillName, Level: r.Level}
			}),
		}
	})
}

type StaffingResponse struct {
	Project ProjectResponse `json:"project"`
	Slots   []SlotResponse  `json:"slots"`
	Filled  int             `json:"filled"`
	Vacant  int             `json:"vacant"`
}

func NewStaffingResponse(r usecase.StaffingResult) StaffingResponse {
	return StaffingResponse{
		Project: NewProjectResponse(r.Project),
		Slots:   NewSlotList(r.Slots),
		Filled:  r.Filled,
		Vacant:  r.Vacant,
	}
}

type AssignmentResponse struct {
	ID           int64  `json:"id"`
	ProjectID    int64  `json:"project_id"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Role         string `json:"role"`
	StartDate    Date   `json:"start_date"`
	EndDate      *Date  `json:"end_date"`
	Rated        bool   `json:"rated"`
}

func NewAssignmentResponse(a project.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Role:         string(a.Role),
		StartDate:    NewDate(a.StartDate),
		EndDate:      DatePtr(a.EndDate),
		Rated:        a.Rated,
	}
}

func NewAssignmentList(items []project.Assignment) []AssignmentResponse {
	return slice.Map(items, func(_ int, a project.Assignment) AssignmentResponse {
		return NewAssignmentResponse(a)
	})
}

type ProjectDetailsResponse struct {
	Project     ProjectResponse      `json:"project"`
	Slots       []SlotResponse       `json:"slots"`
	Assignments []AssignmentResponse `json:"assignments"`
}

func NewProjectDetailsResponse(d usecase.ProjectDetails) ProjectDetailsResponse {
	return ProjectDetailsResponse{
		Project:     NewProjectResponse(d.Project),
		Slots:       NewSlotList(d.Slots),
		Assignments: NewAssignmentList(d.Assignments),
	}
}

type ProjectAssignmentsResponse struct {
	Project     ProjectResponse      `json:"project"`
	Assignments []AssignmentResponse `json:"assignments"`
	Roles       []string             `json:"roles"`
}

func NewProjectAssignmentsResponse(pa usecase.ProjectAssignments) ProjectAssignmentsResponse {
	return ProjectAssignmentsResponse{
		Project:     NewProjectResponse(pa.Project),
		Assignments: NewAssignmentList(pa.Assignments),
		Roles: slice.Map(project.Roles(), func(_ int, r project.Role) string {
			return string(r)
		}),
	}
}

type AssignRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	StartDate  Date   `json:"start_date"`
}

func (r AssignRequest) Input() usecase.AssignInput {
	return usecase.AssignInput{EmployeeID: r.EmployeeID, Role: r.Role, StartDate: r.StartDate.Time}
}

type EditRoleRequest struct {
	Role string `json:"role"`
}
