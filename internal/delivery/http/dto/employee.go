package dto

import (
	"competency-hub/internal/domain/employee"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/usecase"

	"github.com/ecodeclub/ekit/slice"
)

type EmployeeRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	NationalID  string  `json:"national_id"`
	DateOfBirth Date    `json:"date_of_birth"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email"`
}

func (r EmployeeRequest) Input() usecase.EmployeeInput {
	return usecase.EmployeeInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		NationalID:  r.NationalID,
		DateOfBirth: r.DateOfBirth.Time,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
	}
}

type EmployeeResponse struct {
	ID           int64                `json:"id"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	FullName     string               `json:"full_name"`
	NationalID   string               `json:"national_id"`
	DateOfBirth  Date                 `json:"date_of_birth"`
	PhoneNumber  string               `json:"phone_number"`
	Email        *string              `json:"email"`
	Competencies []CompetencyResponse `json:"competencies,omitempty"`
}

func NewEmployeeResponse(e employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		NationalID:   e.NationalID,
		DateOfBirth:  NewDate(e.DateOfBirth),
		PhoneNumber:  e.PhoneNumber,
		Email:        e.Email,
		Competencies: NewCompetencyList(e.Competencies),
	}
}

func NewEmployeeList(items []employee.Employee) []EmployeeResponse {
	return slice.Map(items, func(_ int, e employee.Employee) EmployeeResponse {
		return NewEmployeeResponse(e)
	})
}

type CompetencyRequest struct {
	EmployeeID  int64 `json:"employee_id"`
	SkillTypeID int64 `json:"skill_type_id"`
	Level       int   `json:"level"`
}

type CompetencyLevelRequest struct {
	Level int `json:"level"`
}

type CompetencyResponse struct {
	ID          int64  `json:"id"`
	EmployeeID  int64  `json:"employee_id"`
	SkillTypeID int64  `json:"skill_type_id"`
	SkillName   string `json:"skill_name"`
	Level       int    `json:"level"`
}

func NewCompetencyResponse(c employee.Competency) CompetencyResponse {
	return CompetencyResponse{
		ID:          c.ID,
		EmployeeID:  c.EmployeeID,
		SkillTypeID: c.SkillTypeID,
		SkillName:   c.SkillName,
		Level:       c.Level,
	}
}

func NewCompetencyList(items []employee.Competency) []CompetencyResponse {
	if items == nil {
		return nil
	}
	return slice.Map(items, func(_ int, c employee.Competency) CompetencyResponse {
		return NewCompetencyResponse(c)
	})
}

type SkillTypeRequest struct {
	Name string `json:"name"`
}

type SkillTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewSkillTypeList(items []skill.SkillType) []SkillTypeResponse {
	return slice.Map(items, func(_ int, s skill.SkillType) SkillTypeResponse {
		return SkillTypeResponse{ID: s.ID, Name: s.Name}
	})
}

type DeleteCheckResponse struct {
	SkillType  SkillTypeResponse `json:"skill_type"`
	References int               `json:"references"`
	Blocked    bool              `json:"blocked"`
	Message    string            `json:"message,omitempty"`
}

func NewDeleteCheckResponse(d usecase.DeleteCheck) DeleteCheckResponse {
	return DeleteCheckResponse{
		SkillType:  SkillTypeResponse{ID: d.SkillType.ID, Name: d.SkillType.Name},
		References: d.References,
		Blocked:    d.Blocked,
		Message:    d.Message,
	}
}
