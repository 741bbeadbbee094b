package project

import (
	"time"

	"competency-hub/internal/domain/matching"
)

type Project struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	ManagerID int64

	ManagerName string
}

func (p Project) Closed() bool {
	return p.EndDate != nil
}

// Slot is a role position in a project. EmployeeID is nil while the slot is vacant.
// Its requirements outlive whoever fills it.
type Slot struct {
	ID           int64
	ProjectID    int64
	EmployeeID   *int64
	EmployeeName string
	RoleName     string
	Requirements []VacancySkill
}

func (s Slot) Vacant() bool {
	return s.EmployeeID == nil
}

func (s Slot) MatchRequirements() []matching.Requirement {
	out := make([]matching.Requirement, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		out = append(out, matching.Requirement{SkillTypeID: r.SkillTypeID, Level: r.Level})
	}
	return out
}

type VacancySkill struct {
	ID          int64
	SlotID      int64
	SkillTypeID int64
	SkillName   string
	Level       int
}

type Assignment struct {
	ID           int64
	ProjectID    int64
	EmployeeID   int64
	EmployeeName string
	Role         Role
	StartDate    time.Time
	EndDate      *time.Time
	Rated        bool
}
