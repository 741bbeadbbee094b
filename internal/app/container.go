package app

import (
	"context"
	"time"

	"competency-hub/internal/config"
	"competency-hub/internal/database"
	dbpostgres "competency-hub/internal/database/postgres"
	"competency-hub/internal/infrastructure/cache"
	"competency-hub/internal/metrics"
	"competency-hub/internal/pkg/jwt"
	"competency-hub/internal/repository"
	"competency-hub/internal/usecase"
	"competency-hub/internal/ws"

	"github.com/rs/zerolog"
)

// Container owns the process-wide infrastructure and the usecases built on it.
type Container struct {
	Config  config.Config
	Logger  zerolog.Logger
	DB      database.DB
	Cache   *cache.Redis
	Hub     *ws.Hub
	Metrics *metrics.Metrics
	JWT     jwt.Service

	Auth         usecase.AuthUsecase
	Employees    usecase.EmployeeUsecase
	SkillTypes   usecase.SkillTypeUsecase
	Competencies usecase.CompetencyUsecase
	Projects     usecase.ProjectUsecase
	Staffing     usecase.StaffingUsecase
	Roles        usecase.RoleUsecase
	Ratings      usecase.RatingUsecase
}

func NewContainer(cfg config.Config, logger zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, logger),
		Hub:     ws.NewHub(logger),
		Metrics: metrics.New(),
		JWT:     jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
	}
	c.wireUsecases()
	return c, nil
}

func (c *Container) wireUsecases() {
	employees := repository.NewPostgresEmployeeRepository(c.DB)
	skillTypes := repository.NewPostgresSkillTypeRepository(c.DB)
	competencies := repository.NewPostgresCompetencyRepository(c.DB)
	projects := repository.NewPostgresProjectRepository(c.DB)
	assignments := repository.NewPostgresAssignmentRepository(c.DB)
	ratings := repository.NewPostgresRatingRepository(c.DB)
	users := repository.NewPostgresUserRepository(c.DB)

	c.Auth = usecase.NewAuthUsecase(users, c.JWT)
	c.Employees = usecase.NewEmployeeUsecase(employees)
	c.SkillTypes = usecase.NewSkillTypeUsecase(skillTypes, c.Cache)
	c.Competencies = usecase.NewCompetencyUsecase(competencies, employees, skillTypes)
	c.Projects = usecase.NewProjectUsecase(projects, assignments, employees, skillTypes, c.Logger)
	c.Staffing = usecase.NewStaffingUsecase(projects, employees, skillTypes, c.Hub, c.Metrics, c.Logger)
	c.Roles = usecase.NewRoleUsecase(assignments, projects, employees, competencies)
	c.Ratings = usecase.NewRatingUsecase(ratings, assignments, projects, c.Hub, c.Metrics, c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	_ = c.Cache.Close()
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
