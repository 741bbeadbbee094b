package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"competency-hub/internal/domain/employee"
	"competency-hub/internal/domain/matching"
	"competency-hub/internal/domain/project"
	"competency-hub/internal/domain/rating"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errUnique = &pgconn.PgError{Code: "23505"}
	errFK     = &pgconn.PgError{Code: "23503"}
)

// memStore is an in-memory stand-in for the relational store. When blind is
// set, the uniqueness pre-checks report no conflict, so writes reach the
// store's own constraints as they would under a concurrent request.
type memStore struct {
	seq          int64
	employees    map[int64]employee.Employee
	skillTypes   map[int64]skill.SkillType
	competencies map[int64]employee.Competency
	projects     map[int64]project.Project
	slots        map[int64]project.Slot
	assignments  map[int64]project.Assignment
	ratings      map[int64]rating.MonthlyRating

	blind     bool
	fail      map[string]error
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		employees:    map[int64]employee.Employee{},
		skillTypes:   map[int64]skill.SkillType{},
		competencies: map[int64]employee.Competency{},
		projects:     map[int64]project.Project{},
		slots:        map[int64]project.Slot{},
		assignments:  map[int64]project.Assignment{},
		ratings:      map[int64]rating.MonthlyRating{},
		fail:         map[string]error{},
	}
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func keys[V any](m map[int64]V) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type memSnapshot struct {
	seq          int64
	employees    map[int64]employee.Employee
	skillTypes   map[int64]skill.SkillType
	competencies map[int64]employee.Competency
	projects     map[int64]project.Project
	slots        map[int64]project.Slot
	assignments  map[int64]project.Assignment
	ratings      map[int64]rating.MonthlyRating
}

func (s *memStore) snapshot() memSnapshot {
	slots := make(map[int64]project.Slot, len(s.slots))
	for k, v := range s.slots {
		v.Requirements = append([]project.VacancySkill(nil), v.Requirements...)
		slots[k] = v
	}
	return memSnapshot{
		seq:          s.seq,
		employees:    copyMap(s.employees),
		skillTypes:   copyMap(s.skillTypes),
		competencies: copyMap(s.competencies),
		projects:     copyMap(s.projects),
		slots:        slots,
		assignments:  copyMap(s.assignments),
		ratings:      copyMap(s.ratings),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.seq = snap.seq
	s.employees = snap.employees
	s.skillTypes = snap.skillTypes
	s.competencies = snap.competencies
	s.projects = snap.projects
	s.slots = snap.slots
	s.assignments = snap.assignments
	s.ratings = snap.ratings
}

// seeding helpers

func (s *memStore) addSkill(name string) int64 {
	id := s.nextID()
	s.skillTypes[id] = skill.SkillType{ID: id, Name: name}
	return id
}

func (s *memStore) addEmployee(name string, levels map[int64]int) int64 {
	id := s.nextID()
	s.employees[id] = employee.Employee{
		ID:          id,
		FirstName:   name,
		LastName:    "Test",
		NationalID:  fmt.Sprintf("%011d", id),
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		PhoneNumber: "123456789",
	}
	skills := make([]int64, 0, len(levels))
	for sk := range levels {
		skills = append(skills, sk)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i] < skills[j] })
	for _, sk := range skills {
		cid := s.nextID()
		s.competencies[cid] = employee.Competency{ID: cid, EmployeeID: id, SkillTypeID: sk, Level: levels[sk]}
	}
	return id
}

func (s *memStore) addProject(name string, managerID int64, closed bool) int64 {
	id := s.nextID()
	p := project.Project{
		ID:        id,
		Name:      name,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ManagerID: managerID,
	}
	if closed {
		end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
		p.EndDate = &end
	}
	s.projects[id] = p
	return id
}

func (s *memStore) addSlot(projectID int64, employeeID *int64, reqs ...project.VacancySkill) int64 {
	id := s.nextID()
	for i := range reqs {
		reqs[i].ID = s.nextID()
		reqs[i].SlotID = id
	}
	s.slots[id] = project.Slot{ID: id, ProjectID: projectID, EmployeeID: employeeID, Requirements: reqs}
	return id
}

func (s *memStore) addAssignment(projectID, employeeID int64, role project.Role) int64 {
	id := s.nextID()
	s.assignments[id] = project.Assignment{
		ID:         id,
		ProjectID:  projectID,
		EmployeeID: employeeID,
		Role:       role,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return id
}

func (s *memStore) addRating(assignmentID int64, score int, comment string) int64 {
	id := s.nextID()
	s.ratings[id] = rating.MonthlyRating{ID: id, AssignmentID: assignmentID, Score: score, Comment: comment}
	return id
}

func (s *memStore) employeeName(id int64) string {
	e, ok := s.employees[id]
	if !ok {
		return ""
	}
	return e.FullName()
}

func (s *memStore) slotsOf(projectID int64) []project.Slot {
	out := []project.Slot{}
	for _, id := range keys(s.slots) {
		sl := s.slots[id]
		if sl.ProjectID != projectID {
			continue
		}
		sl.EmployeeName = ""
		if sl.EmployeeID != nil {
			sl.EmployeeName = s.employeeName(*sl.EmployeeID)
		}
		reqs := make([]project.VacancySkill, 0, len(sl.Requirements))
		for _, r := range sl.Requirements {
			r.SkillName = s.skillTypes[r.SkillTypeID].Name
			reqs = append(reqs, r)
		}
		sl.Requirements = reqs
		out = append(out, sl)
	}
	return out
}

func (s *memStore) ratedAssignment(assignmentID int64) (rating.MonthlyRating, bool) {
	for _, id := range keys(s.ratings) {
		if r := s.ratings[id]; r.AssignmentID == assignmentID {
			return r, true
		}
	}
	return rating.MonthlyRating{}, false
}

// employees

type memEmployees struct{ s *memStore }

func (m memEmployees) List(context.Context) ([]employee.Employee, error) {
	out := []employee.Employee{}
	for _, id := range keys(m.s.employees) {
		out = append(out, m.s.employees[id])
	}
	return out, m.s.fail["employees.List"]
}

func (m memEmployees) FindByID(_ context.Context, id int64) (employee.Employee, error) {
	e, ok := m.s.employees[id]
	if !ok {
		return employee.Employee{}, repository.ErrNotFound
	}
	e.Competencies = []employee.Competency{}
	for _, cid := range keys(m.s.competencies) {
		c := m.s.competencies[cid]
		if c.EmployeeID == id {
			c.SkillName = m.s.skillTypes[c.SkillTypeID].Name
			e.Competencies = append(e.Competencies, c)
		}
	}
	return e, nil
}

func (m memEmployees) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.s.employees[id]
	return ok, nil
}

func (m memEmployees) NationalIDTaken(_ context.Context, nationalID string, exceptID int64) (bool, error) {
	if m.s.blind {
		return false, nil
	}
	return m.nidTaken(nationalID, exceptID), nil
}

func (m memEmployees) nidTaken(nationalID string, exceptID int64) bool {
	for id, e := range m.s.employees {
		if id != exceptID && e.NationalID == nationalID {
			return true
		}
	}
	return false
}

func (m memEmployees) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	if m.nidTaken(e.NationalID, 0) {
		return employee.Employee{}, errUnique
	}
	e.ID = m.s.nextID()
	m.s.employees[e.ID] = e
	return e, nil
}

func (m memEmployees) Update(_ context.Context, e employee.Employee) error {
	if err := m.s.fail["employees.Update"]; err != nil {
		return err
	}
	if _, ok := m.s.employees[e.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	if m.nidTaken(e.NationalID, e.ID) {
		return errUnique
	}
	m.s.employees[e.ID] = e
	return nil
}

func (m memEmployees) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.employees[id]; !ok {
		return repository.ErrNotFound
	}
	for _, p := range m.s.projects {
		if p.ManagerID == id {
			return errFK
		}
	}
	delete(m.s.employees, id)
	for cid, c := range m.s.competencies {
		if c.EmployeeID == id {
			delete(m.s.competencies, cid)
		}
	}
	return nil
}

// skill types

type memSkillTypes struct{ s *memStore }

func (m memSkillTypes) List(context.Context) ([]skill.SkillType, error) {
	out := []skill.SkillType{}
	for _, id := range keys(m.s.skillTypes) {
		out = append(out, m.s.skillTypes[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return skill.NameKey(out[i].Name) < skill.NameKey(out[j].Name) })
	return out, m.s.fail["skillTypes.List"]
}

func (m memSkillTypes) FindByID(_ context.Context, id int64) (skill.SkillType, error) {
	st, ok := m.s.skillTypes[id]
	if !ok {
		return skill.SkillType{}, repository.ErrNotFound
	}
	return st, nil
}

func (m memSkillTypes) NameTaken(_ context.Context, name string) (bool, error) {
	if m.s.blind {
		return false, nil
	}
	return m.taken(name), nil
}

func (m memSkillTypes) taken(name string) bool {
	for _, st := range m.s.skillTypes {
		if skill.NameKey(st.Name) == skill.NameKey(name) {
			return true
		}
	}
	return false
}

func (m memSkillTypes) Create(_ context.Context, st skill.SkillType) (skill.SkillType, error) {
	if m.taken(st.Name) {
		return skill.SkillType{}, errUnique
	}
	st.ID = m.s.nextID()
	m.s.skillTypes[st.ID] = st
	return st, nil
}

func (m memSkillTypes) CountCompetencies(_ context.Context, id int64) (int, error) {
	n := 0
	for _, c := range m.s.competencies {
		if c.SkillTypeID == id {
			n++
		}
	}
	return n, nil
}

func (m memSkillTypes) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.skillTypes[id]; !ok {
		return repository.ErrNotFound
	}
	for _, c := range m.s.competencies {
		if c.SkillTypeID == id {
			return errFK
		}
	}
	for _, sl := range m.s.slots {
		for _, r := range sl.Requirements {
			if r.SkillTypeID == id {
				return errFK
			}
		}
	}
	delete(m.s.skillTypes, id)
	return nil
}

// competencies

type memCompetencies struct{ s *memStore }

func (m memCompetencies) FindByID(_ context.Context, id int64) (employee.Competency, error) {
	c, ok := m.s.competencies[id]
	if !ok {
		return employee.Competency{}, repository.ErrNotFound
	}
	c.SkillName = m.s.skillTypes[c.SkillTypeID].Name
	return c, nil
}

func (m memCompetencies) PairExists(_ context.Context, employeeID, skillTypeID int64) (bool, error) {
	if m.s.blind {
		return false, nil
	}
	return m.pair(employeeID, skillTypeID), nil
}

func (m memCompetencies) pair(employeeID, skillTypeID int64) bool {
	for _, c := range m.s.competencies {
		if c.EmployeeID == employeeID && c.SkillTypeID == skillTypeID {
			return true
		}
	}
	return false
}

func (m memCompetencies) Create(_ context.Context, c employee.Competency) (employee.Competency, error) {
	if m.pair(c.EmployeeID, c.SkillTypeID) {
		return employee.Competency{}, errUnique
	}
	if _, ok := m.s.employees[c.EmployeeID]; !ok {
		return employee.Competency{}, errFK
	}
	if _, ok := m.s.skillTypes[c.SkillTypeID]; !ok {
		return employee.Competency{}, errFK
	}
	c.ID = m.s.nextID()
	m.s.competencies[c.ID] = c
	return c, nil
}

func (m memCompetencies) UpdateLevel(_ context.Context, id int64, level int) error {
	c, ok := m.s.competencies[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	c.Level = level
	m.s.competencies[id] = c
	return nil
}

func (m memCompetencies) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.s.competencies[id]
	return ok, nil
}

func (m memCompetencies) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.competencies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.competencies, id)
	return nil
}

func (m memCompetencies) Levels(_ context.Context, employeeID int64) ([]int, error) {
	out := []int{}
	for _, id := range keys(m.s.competencies) {
		if c := m.s.competencies[id]; c.EmployeeID == employeeID {
			out = append(out, c.Level)
		}
	}
	return out, nil
}

// projects

type memProjects struct{ s *memStore }

func (m memProjects) withManager(p project.Project) project.Project {
	p.ManagerName = m.s.employeeName(p.ManagerID)
	return p
}

func (m memProjects) List(context.Context) ([]project.Project, error) {
	out := []project.Project{}
	for _, id := range keys(m.s.projects) {
		out = append(out, m.withManager(m.s.projects[id]))
	}
	return out, nil
}

func (m memProjects) FindByID(_ context.Context, id int64) (project.Project, error) {
	p, ok := m.s.projects[id]
	if !ok {
		return project.Project{}, repository.ErrNotFound
	}
	return m.withManager(p), nil
}

func (m memProjects) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.s.projects[id]
	return ok, nil
}

func (m memProjects) ListSlots(_ context.Context, projectID int64) ([]project.Slot, error) {
	return m.s.slotsOf(projectID), nil
}

func (m memProjects) Close(_ context.Context, id int64, endDate time.Time) error {
	p, ok := m.s.projects[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	p.EndDate = &endDate
	m.s.projects[id] = p
	return nil
}

func (m memProjects) ReleaseSlot(_ context.Context, projectID, slotID int64) error {
	sl, ok := m.s.slots[slotID]
	if !ok || sl.ProjectID != projectID {
		return repository.ErrNotFound
	}
	sl.EmployeeID = nil
	m.s.slots[slotID] = sl
	return nil
}

func (m memProjects) InTx(_ context.Context, fn func(tx repository.ProjectTx) error) error {
	snap := m.s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			m.s.restore(snap)
			m.s.rollbacks++
			panic(r)
		}
	}()
	if err := fn(memTx{s: m.s}); err != nil {
		m.s.restore(snap)
		m.s.rollbacks++
		return err
	}
	m.s.commits++
	return nil
}

type memTx struct{ s *memStore }

func (t memTx) CreateProject(_ context.Context, p project.Project) (int64, error) {
	if err := t.s.fail["tx.CreateProject"]; err != nil {
		return 0, err
	}
	if _, ok := t.s.employees[p.ManagerID]; !ok {
		return 0, errFK
	}
	p.ID = t.s.nextID()
	t.s.projects[p.ID] = p
	return p.ID, nil
}

func (t memTx) LockProject(ctx context.Context, id int64) (project.Project, error) {
	return memProjects(t).FindByID(ctx, id)
}

func (t memTx) UpdateProject(_ context.Context, p project.Project) error {
	if _, ok := t.s.projects[p.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	t.s.projects[p.ID] = p
	return nil
}

func (t memTx) ListCandidates(_ context.Context, excludeEmployeeID int64) ([]matching.Candidate, error) {
	if err := t.s.fail["tx.ListCandidates"]; err != nil {
		return nil, err
	}
	out := []matching.Candidate{}
	for _, id := range keys(t.s.employees) {
		if id == excludeEmployeeID {
			continue
		}
		c := matching.Candidate{EmployeeID: id, Levels: map[int64]int{}}
		for _, comp := range t.s.competencies {
			if comp.EmployeeID == id {
				c.Levels[comp.SkillTypeID] = comp.Level
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (t memTx) ListSlots(_ context.Context, projectID int64) ([]project.Slot, error) {
	return t.s.slotsOf(projectID), nil
}

func (t memTx) CreateSlot(_ context.Context, sl project.Slot) (int64, error) {
	if err := t.s.fail["tx.CreateSlot"]; err != nil {
		return 0, err
	}
	sl.ID = t.s.nextID()
	sl.Requirements = []project.VacancySkill{}
	t.s.slots[sl.ID] = sl
	return sl.ID, nil
}

func (t memTx) AddRequirements(_ context.Context, slotID int64, reqs []project.VacancySkill) error {
	if err := t.s.fail["tx.AddRequirements"]; err != nil {
		return err
	}
	sl := t.s.slots[slotID]
	for _, r := range reqs {
		if _, ok := t.s.skillTypes[r.SkillTypeID]; !ok {
			return errFK
		}
		r.ID = t.s.nextID()
		r.SlotID = slotID
		sl.Requirements = append(sl.Requirements, r)
	}
	t.s.slots[slotID] = sl
	return nil
}

func (t memTx) ReplaceRequirements(ctx context.Context, slotID int64, reqs []project.VacancySkill) error {
	sl := t.s.slots[slotID]
	sl.Requirements = []project.VacancySkill{}
	t.s.slots[slotID] = sl
	return t.AddRequirements(ctx, slotID, reqs)
}

func (t memTx) AssignSlot(_ context.Context, slotID, employeeID int64) error {
	if err := t.s.fail["tx.AssignSlot"]; err != nil {
		return err
	}
	sl, ok := t.s.slots[slotID]
	if !ok || sl.EmployeeID != nil {
		return repository.ErrNoRowsAffected
	}
	id := employeeID
	sl.EmployeeID = &id
	t.s.slots[slotID] = sl
	return nil
}

// assignments

type memAssignments struct{ s *memStore }

func (m memAssignments) decorate(a project.Assignment) project.Assignment {
	a.EmployeeName = m.s.employeeName(a.EmployeeID)
	_, a.Rated = m.s.ratedAssignment(a.ID)
	return a
}

func (m memAssignments) ListByProject(_ context.Context, projectID int64) ([]project.Assignment, error) {
	out := []project.Assignment{}
	for _, id := range keys(m.s.assignments) {
		if a := m.s.assignments[id]; a.ProjectID == projectID {
			out = append(out, m.decorate(a))
		}
	}
	return out, nil
}

func (m memAssignments) FindByID(_ context.Context, id int64) (project.Assignment, error) {
	a, ok := m.s.assignments[id]
	if !ok {
		return project.Assignment{}, repository.ErrNotFound
	}
	return m.decorate(a), nil
}

func (m memAssignments) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.s.assignments[id]
	return ok, nil
}

func (m memAssignments) Create(_ context.Context, a project.Assignment) (project.Assignment, error) {
	if _, ok := m.s.projects[a.ProjectID]; !ok {
		return project.Assignment{}, errFK
	}
	a.ID = m.s.nextID()
	m.s.assignments[a.ID] = a
	return a, nil
}

func (m memAssignments) UpdateRole(_ context.Context, id int64, role project.Role) error {
	if err := m.s.fail["assignments.UpdateRole"]; err != nil {
		return err
	}
	a, ok := m.s.assignments[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	a.Role = role
	m.s.assignments[id] = a
	return nil
}

func (m memAssignments) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.assignments, id)
	for rid, r := range m.s.ratings {
		if r.AssignmentID == id {
			delete(m.s.ratings, rid)
		}
	}
	return nil
}

func (m memAssignments) AvailableEmployees(_ context.Context, projectID int64) ([]employee.Employee, error) {
	busy := map[int64]bool{}
	for _, a := range m.s.assignments {
		if a.ProjectID == projectID && a.EndDate == nil {
			busy[a.EmployeeID] = true
		}
	}
	out := []employee.Employee{}
	for _, id := range keys(m.s.employees) {
		if !busy[id] {
			out = append(out, m.s.employees[id])
		}
	}
	return out, nil
}

// ratings

type memRatings struct{ s *memStore }

func (m memRatings) ExistsForAssignment(_ context.Context, assignmentID int64) (bool, error) {
	if m.s.blind {
		return false, nil
	}
	_, ok := m.s.ratedAssignment(assignmentID)
	return ok, nil
}

func (m memRatings) Create(_ context.Context, r rating.MonthlyRating) (rating.MonthlyRating, error) {
	if _, ok := m.s.ratedAssignment(r.AssignmentID); ok {
		return rating.MonthlyRating{}, errUnique
	}
	r.ID = m.s.nextID()
	m.s.ratings[r.ID] = r
	return r, nil
}

func (m memRatings) ListByProject(_ context.Context, projectID int64) (map[int64]rating.MonthlyRating, error) {
	out := map[int64]rating.MonthlyRating{}
	for _, r := range m.s.ratings {
		if m.s.assignments[r.AssignmentID].ProjectID == projectID {
			out[r.AssignmentID] = r
		}
	}
	return out, nil
}

func (m memRatings) PendingProjects(context.Context) ([]repository.PendingProject, error) {
	out := []repository.PendingProject{}
	for _, pid := range keys(m.s.projects) {
		p := m.s.projects[pid]
		if !p.Closed() {
			continue
		}
		pp := repository.PendingProject{Project: memProjects(m).withManager(p)}
		for _, a := range m.s.assignments {
			if a.ProjectID != pid {
				continue
			}
			pp.Assignments++
			if _, ok := m.s.ratedAssignment(a.ID); !ok {
				pp.Unrated++
			}
		}
		if pp.Unrated > 0 {
			out = append(out, pp)
		}
	}
	return out, nil
}

// spies

type publishedEvent struct {
	Type      string
	ProjectID int64
	Payload   any
}

type spyPublisher struct {
	events []publishedEvent
}

func (p *spyPublisher) Publish(eventType string, projectID int64, payload any) {
	p.events = append(p.events, publishedEvent{Type: eventType, ProjectID: projectID, Payload: payload})
}

type spyRecorder struct {
	runs      map[string]int
	filled    map[string]int
	vacant    map[string]int
	ratings   int
	lowScores int
}

func newSpyRecorder() *spyRecorder {
	return &spyRecorder{runs: map[string]int{}, filled: map[string]int{}, vacant: map[string]int{}}
}

func (r *spyRecorder) StaffingRun(flow string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	r.runs[flow+":"+outcome]++
}

func (r *spyRecorder) StaffingSlots(flow string, filled, vacant int) {
	r.filled[flow] += filled
	r.vacant[flow] += vacant
}

func (r *spyRecorder) Rating(low bool) {
	r.ratings++
	if low {
		r.lowScores++
	}
}

func ptr[T any](v T) *T { return &v }
