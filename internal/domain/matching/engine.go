package matching

// Requirement is the minimum level a role slot needs in one skill type.
type Requirement struct {
	SkillTypeID int64
	Level       int
}

// Candidate is an employee with attained levels keyed by skill type id.
// A skill type missing from Levels counts as level 0.
type Candidate struct {
	EmployeeID int64
	Levels     map[int64]int
}

// Placement is the outcome of matching one role within a pass.
// EmployeeID is nil when the role stays vacant.
type Placement struct {
	Role       int
	EmployeeID *int64
	Deficit    int
}

func (p Placement) Filled() bool {
	return p.EmployeeID != nil
}

func RequirementDeficit(attained, required int) int {
	if attained > required {
		attained = required
	}
	d := required - attained
	if d < 0 {
		return 0
	}
	return d
}

func Deficit(c Candidate, reqs []Requirement) int {
	total := 0
	for _, r := range reqs {
		total += RequirementDeficit(c.Levels[r.SkillTypeID], r.Level)
	}
	return total
}

// BestMatch returns the candidate with the lowest total deficit. Ties keep the
// earliest candidate in pool order.
func BestMatch(pool []Candidate, reqs []Requirement) (Candidate, int, bool) {
	if len(pool) == 0 {
		return Candidate{}, 0, false
	}

	best := pool[0]
	bestDeficit := Deficit(best, reqs)
	for _, c := range pool[1:] {
		d := Deficit(c, reqs)
		if d < bestDeficit {
			best = c
			bestDeficit = d
		}
	}
	return best, bestDeficit, true
}

// Pass tracks the employees claimed during a single staffing run.
type Pass struct {
	claimed map[int64]struct{}
}

func NewPass(excluded ...int64) *Pass {
	p := &Pass{claimed: make(map[int64]struct{}, len(excluded))}
	for _, id := range excluded {
		p.claimed[id] = struct{}{}
	}
	return p
}

func (p *Pass) Claimed(employeeID int64) bool {
	_, ok := p.claimed[employeeID]
	return ok
}

func (p *Pass) Claim(employeeID int64) {
	p.claimed[employeeID] = struct{}{}
}

func (p *Pass) Available(pool []Candidate) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if p.Claimed(c.EmployeeID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Fill matches one role against the unclaimed part of pool and claims the winner.
func (p *Pass) Fill(pool []Candidate, reqs []Requirement) (Candidate, int, bool) {
	best, d, ok := BestMatch(p.Available(pool), reqs)
	if !ok {
		return Candidate{}, 0, false
	}
	p.Claim(best.EmployeeID)
	return best, d, true
}

// Plan runs a greedy pass over roles in order. Employees in excluded are never
// placed, and no employee is placed twice.
func Plan(pool []Candidate, roles [][]Requirement, excluded ...int64) []Placement {
	pass := NewPass(excluded...)
	out := make([]Placement, 0, len(roles))
	for i, reqs := range roles {
		pl := Placement{Role: i}
		if c, d, ok := pass.Fill(pool, reqs); ok {
			id := c.EmployeeID
			pl.EmployeeID = &id
			pl.Deficit = d
		}
		out = append(out, pl)
	}
	return out
}
