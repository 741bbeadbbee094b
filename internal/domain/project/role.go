package project

import "fmt"

type Role string

const (
	RoleTechLead  Role = "Lider Techniczny"
	RoleDeveloper Role = "Programista"
	RoleTester    Role = "Tester"
	RoleAnalyst   Role = "Analityk"
)

var roles = []Role{RoleTechLead, RoleDeveloper, RoleTester, RoleAnalyst}

// minCompetencyLevel is the level at least one recorded competency must reach.
// Only the technical lead is special-cased; the check is coarse and ignores
// which skill the level belongs to.
var minCompetencyLevel = map[Role]int{
	RoleTechLead:  6,
	RoleDeveloper: 1,
	RoleTester:    1,
	RoleAnalyst:   1,
}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := minCompetencyLevel[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) MinCompetencyLevel() int {
	return minCompetencyLevel[r]
}

// Eligible reports whether any of levels reaches the role's bar.
func (r Role) Eligible(levels []int) bool {
	bar, ok := minCompetencyLevel[r]
	if !ok {
		return false
	}
	for _, l := range levels {
		if l >= bar {
			return true
		}
	}
	return false
}
