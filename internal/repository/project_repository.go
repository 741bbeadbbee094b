package repository

import (
	"context"
	"time"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/matching"
	"competency-hub/internal/domain/project"

	"github.com/pkg/errors"
)

type ProjectRepository interface {
	List(ctx context.Context) ([]project.Project, error)
	FindByID(ctx context.Context, id int64) (project.Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListSlots(ctx context.Context, projectID int64) ([]project.Slot, error)
	Close(ctx context.Context, id int64, endDate time.Time) error
	ReleaseSlot(ctx context.Context, projectID, slotID int64) error

	// InTx runs fn in one transaction. Any error returned by fn rolls back
	// everything fn wrote.
	InTx(ctx context.Context, fn func(tx ProjectTx) error) error
}

// ProjectTx is the write surface used by the staffing and project edit flows.
type ProjectTx interface {
	CreateProject(ctx context.Context, p project.Project) (int64, error)
	LockProject(ctx context.Context, id int64) (project.Project, error)
	UpdateProject(ctx context.Context, p project.Project) error
	ListCandidates(ctx context.Context, excludeEmployeeID int64) ([]matching.Candidate, error)
	ListSlots(ctx context.Context, projectID int64) ([]project.Slot, error)
	CreateSlot(ctx context.Context, s project.Slot) (int64, error)
	AddRequirements(ctx context.Context, slotID int64, reqs []project.VacancySkill) error
	ReplaceRequirements(ctx context.Context, slotID int64, reqs []project.VacancySkill) error
	AssignSlot(ctx context.Context, slotID, employeeID int64) error
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

const projectSelect = `SELECT p.id, p.name, p.start_date, p.end_date, p.manager_id, m.first_name || ' ' || m.last_name
	FROM projects p
	JOIN employees m ON m.id = p.manager_id`

func scanProject(row interface{ Scan(dest ...any) error }) (project.Project, error) {
	var p project.Project
	err := row.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.ManagerID, &p.ManagerName)
	return p, err
}

func (r *PostgresProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	rows, err := r.db.Query(ctx, projectSelect+` ORDER BY p.id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	defer rows.Close()

	out := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan project")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	return out, nil
}

func (r *PostgresProjectRepository) FindByID(ctx context.Context, id int64) (project.Project, error) {
	return findProject(ctx, r.db, id, false)
}

func findProject(ctx context.Context, q database.Querier, id int64, lock bool) (project.Project, error) {
	query := projectSelect + ` WHERE p.id = $1`
	if lock {
		query += ` FOR UPDATE OF p`
	}
	p, err := scanProject(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return project.Project{}, ErrNotFound
		}
		return project.Project{}, errors.Wrap(err, "find project")
	}
	return p, nil
}

func (r *PostgresProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id), "project")
}

func (r *PostgresProjectRepository) ListSlots(ctx context.Context, projectID int64) ([]project.Slot, error) {
	return listSlots(ctx, r.db, projectID)
}

// listSlots returns slots in creation order, each with its requirements and,
// when filled, the bound employee's name.
func listSlots(ctx context.Context, q database.Querier, projectID int64) ([]project.Slot, error) {
	rows, err := q.Query(ctx,
		`SELECT pm.id, pm.project_id, pm.employee_id, COALESCE(e.first_name || ' ' || e.last_name, ''), COALESCE(pm.role_name, '')
		 FROM project_members pm
		 LEFT JOIN employees e ON e.id = pm.employee_id
		 WHERE pm.project_id = $1
		 ORDER BY pm.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list slots")
	}
	defer rows.Close()

	slots := make([]project.Slot, 0)
	index := map[int64]int{}
	for rows.Next() {
		var s project.Slot
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.EmployeeID, &s.EmployeeName, &s.RoleName); err != nil {
			return nil, errors.Wrap(err, "scan slot")
		}
		s.Requirements = []project.VacancySkill{}
		index[s.ID] = len(slots)
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list slots")
	}
	if len(slots) == 0 {
		return slots, nil
	}

	reqRows, err := q.Query(ctx,
		`SELECT vs.id, vs.project_member_id, vs.skill_type_id, st.name, vs.level
		 FROM vacancy_skills vs
		 JOIN project_members pm ON pm.id = vs.project_member_id
		 JOIN skill_types st ON st.id = vs.skill_type_id
		 WHERE pm.project_id = $1
		 ORDER BY vs.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list slot requirements")
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var v project.VacancySkill
		if err := reqRows.Scan(&v.ID, &v.SlotID, &v.SkillTypeID, &v.SkillName, &v.Level); err != nil {
			return nil, errors.Wrap(err, "scan slot requirement")
		}
		if i, ok := index[v.SlotID]; ok {
			slots[i].Requirements = append(slots[i].Requirements, v)
		}
	}
	if err := reqRows.Err(); err != nil {
		return nil, errors.Wrap(err, "list slot requirements")
	}
	return slots, nil
}

func (r *PostgresProjectRepository) Close(ctx context.Context, id int64, endDate time.Time) error {
	n, err := r.db.Exec(ctx, `UPDATE projects SET end_date = $2 WHERE id = $1`, id, endDate)
	if err != nil {
		return errors.Wrap(err, "close project")
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// ReleaseSlot unbinds the slot's employee. The slot and its requirements stay.
func (r *PostgresProjectRepository) ReleaseSlot(ctx context.Context, projectID, slotID int64) error {
	n, err := r.db.Exec(ctx,
		`UPDATE project_members SET employee_id = NULL WHERE id = $1 AND project_id = $2`,
		slotID, projectID,
	)
	if err != nil {
		return errors.Wrap(err, "release slot")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProjectRepository) InTx(ctx context.Context, fn func(tx ProjectTx) error) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		return fn(projectTx{q: tx})
	})
}

type projectTx struct {
	q database.Querier
}

func (t projectTx) CreateProject(ctx context.Context, p project.Project) (int64, error) {
	var id int64
	err := t.q.QueryRow(ctx,
		`INSERT INTO projects (name, start_date, end_date, manager_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Name, p.StartDate, p.EndDate, p.ManagerID,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert project")
	}
	return id, nil
}

func (t projectTx) LockProject(ctx context.Context, id int64) (project.Project, error) {
	return findProject(ctx, t.q, id, true)
}

func (t projectTx) UpdateProject(ctx context.Context, p project.Project) error {
	n, err := t.q.Exec(ctx,
		`UPDATE projects SET name = $2, start_date = $3, end_date = $4, manager_id = $5 WHERE id = $1`,
		p.ID, p.Name, p.StartDate, p.EndDate, p.ManagerID,
	)
	if err != nil {
		return errors.Wrap(err, "update project")
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// ListCandidates loads every employee except excludeEmployeeID in id order,
// each with its competency levels.
func (t projectTx) ListCandidates(ctx context.Context, excludeEmployeeID int64) ([]matching.Candidate, error) {
	rows, err := t.q.Query(ctx,
		`SELECT e.id, c.skill_type_id, c.level
		 FROM employees e
		 LEFT JOIN competencies c ON c.employee_id = e.id
		 WHERE e.id <> $1
		 ORDER BY e.id ASC, c.skill_type_id ASC`,
		excludeEmployeeID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list candidates")
	}
	defer rows.Close()

	out := make([]matching.Candidate, 0)
	for rows.Next() {
		var (
			employeeID  int64
			skillTypeID *int64
			level       *int
		)
		if err := rows.Scan(&employeeID, &skillTypeID, &level); err != nil {
			return nil, errors.Wrap(err, "scan candidate")
		}
		if n := len(out); n == 0 || out[n-1].EmployeeID != employeeID {
			out = append(out, matching.Candidate{EmployeeID: employeeID, Levels: map[int64]int{}})
		}
		if skillTypeID != nil && level != nil {
			out[len(out)-1].Levels[*skillTypeID] = *level
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list candidates")
	}
	return out, nil
}

func (t projectTx) ListSlots(ctx context.Context, projectID int64) ([]project.Slot, error) {
	return listSlots(ctx, t.q, projectID)
}

func (t projectTx) CreateSlot(ctx context.Context, s project.Slot) (int64, error) {
	var role *string
	if s.RoleName != "" {
		role = &s.RoleName
	}
	var id int64
	err := t.q.QueryRow(ctx,
		`INSERT INTO project_members (project_id, employee_id, role_name) VALUES ($1, $2, $3) RETURNING id`,
		s.ProjectID, s.EmployeeID, role,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert slot")
	}
	return id, nil
}

func (t projectTx) AddRequirements(ctx context.Context, slotID int64, reqs []project.VacancySkill) error {
	for _, v := range reqs {
		_, err := t.q.Exec(ctx,
			`INSERT INTO vacancy_skills (project_member_id, skill_type_id, level) VALUES ($1, $2, $3)`,
			slotID, v.SkillTypeID, v.Level,
		)
		if err != nil {
			return errors.Wrap(err, "insert slot requirement")
		}
	}
	return nil
}

func (t projectTx) ReplaceRequirements(ctx context.Context, slotID int64, reqs []project.VacancySkill) error {
	if _, err := t.q.Exec(ctx, `DELETE FROM vacancy_skills WHERE project_member_id = $1`, slotID); err != nil {
		return errors.Wrap(err, "clear slot requirements")
	}
	return t.AddRequirements(ctx, slotID, reqs)
}

// AssignSlot binds the employee only while the slot is still vacant.
func (t projectTx) AssignSlot(ctx context.Context, slotID, employeeID int64) error {
	n, err := t.q.Exec(ctx,
		`UPDATE project_members SET employee_id = $2 WHERE id = $1 AND employee_id IS NULL`,
		slotID, employeeID,
	)
	if err != nil {
		return errors.Wrap(err, "assign slot")
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
