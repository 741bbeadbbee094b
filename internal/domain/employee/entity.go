package employee

import "time"

const NationalIDLength = 11

type Employee struct {
	ID          int64
	FirstName   string
	LastName    string
	NationalID  string
	DateOfBirth time.Time
	PhoneNumber string
	Email       *string

	Competencies []Competency
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Competency is an employee's level in one skill type. SkillName is only set
// when the skill type was loaded with it.
type Competency struct {
	ID          int64
	EmployeeID  int64
	SkillTypeID int64
	SkillName   string
	Level       int
}

const (
	MinLevel = 1
	MaxLevel = 10
)
