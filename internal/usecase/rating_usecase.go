package usecase

import (
	"context"
	"errors"
	"time"

	"competency-hub/internal/domain/project"
	"competency-hub/internal/domain/rating"
	"competency-hub/internal/repository"
	"competency-hub/internal/ws"

	"github.com/rs/zerolog"
)

const msgDevelopmentProposal = "Low score: a training proposal was generated for the employee."

type RatingInput struct {
	Score   int        `json:"score"`
	Comment string     `json:"comment" validate:"max=1000"`
	Date    *time.Time `json:"date"`
}

type RatingResult struct {
	Rating    rating.MonthlyRating
	ProjectID int64

	// DevelopmentProposal is advisory only; nothing extra is persisted.
	DevelopmentProposal bool
	Message             string
}

type ReviewItem struct {
	Assignment project.Assignment
	Rating     *rating.MonthlyRating
}

type ReviewList struct {
	Project project.Project
	Items   []ReviewItem
}

type RatingUsecase interface {
	Dashboard(ctx context.Context) ([]repository.PendingProject, error)
	ReviewList(ctx context.Context, projectID int64) (ReviewList, error)
	Rate(ctx context.Context, assignmentID int64, in RatingInput) (RatingResult, error)
}

type Ratings struct {
	ratings     repository.RatingRepository
	assignments repository.AssignmentRepository
	projects    repository.ProjectRepository
	events      EventPublisher
	metrics     RatingRecorder
	logger      zerolog.Logger

	now func() time.Time
}

func NewRatingUsecase(
	ratings repository.RatingRepository,
	assignments repository.AssignmentRepository,
	projects repository.ProjectRepository,
	events EventPublisher,
	recorder RatingRecorder,
	logger zerolog.Logger,
) *Ratings {
	if events == nil {
		events = nopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Ratings{
		ratings:     ratings,
		assignments: assignments,
		projects:    projects,
		events:      events,
		metrics:     recorder,
		logger:      logger.With().Str("component", "ratings").Logger(),
		now:         time.Now,
	}
}

// Dashboard lists closed projects that still have unrated assignments.
func (u *Ratings) Dashboard(ctx context.Context) ([]repository.PendingProject, error) {
	items, err := u.ratings.PendingProjects(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Ratings) ReviewList(ctx context.Context, projectID int64) (ReviewList, error) {
	p, err := u.closedProject(ctx, projectID)
	if err != nil {
		return ReviewList{}, err
	}

	items, err := u.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return ReviewList{}, ErrInternal
	}
	byAssignment, err := u.ratings.ListByProject(ctx, projectID)
	if err != nil {
		return ReviewList{}, ErrInternal
	}

	out := ReviewList{Project: p, Items: make([]ReviewItem, 0, len(items))}
	for _, a := range items {
		it := ReviewItem{Assignment: a}
		if r, ok := byAssignment[a.ID]; ok {
			it.Rating = &r
		}
		out.Items = append(out.Items, it)
	}
	return out, nil
}

// Rate stores the single rating of an assignment. A repeated submission is
// rejected before any other check and leaves the first rating untouched.
func (u *Ratings) Rate(ctx context.Context, assignmentID int64, in RatingInput) (RatingResult, error) {
	a, err := u.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RatingResult{}, ErrNotFound
		}
		return RatingResult{}, ErrInternal
	}

	rated, err := u.ratings.ExistsForAssignment(ctx, assignmentID)
	if err != nil {
		return RatingResult{}, ErrInternal
	}
	if rated {
		return RatingResult{}, &RatingExistsError{ProjectID: a.ProjectID}
	}

	if _, err := u.closedProject(ctx, a.ProjectID); err != nil {
		return RatingResult{}, err
	}

	if err := validateInput(in); err != nil {
		return RatingResult{}, err
	}
	if !rating.ValidScore(in.Score) {
		return RatingResult{}, NewValidationError("score", "must be between 1 and 10")
	}

	date := truncateDay(u.now())
	if in.Date != nil {
		date = truncateDay(*in.Date)
	}

	created, err := u.ratings.Create(ctx, rating.MonthlyRating{
		AssignmentID: assignmentID,
		Score:        in.Score,
		Comment:      rating.Anonymize(in.Comment),
		Date:         date,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return RatingResult{}, &RatingExistsError{ProjectID: a.ProjectID}
		}
		return RatingResult{}, ErrInternal
	}

	res := RatingResult{Rating: created, ProjectID: a.ProjectID}
	low := rating.NeedsDevelopment(created.Score)
	u.metrics.Rating(low)
	if low {
		res.DevelopmentProposal = true
		res.Message = msgDevelopmentProposal
		u.events.Publish(ws.EventDevelopmentProposal, a.ProjectID, map[string]any{
			"assignment_id": assignmentID,
			"employee_id":   a.EmployeeID,
			"score":         created.Score,
		})
		u.logger.Info().Int64("assignment_id", assignmentID).Int("score", created.Score).Msg("development proposal raised")
	}
	return res, nil
}

func (u *Ratings) closedProject(ctx context.Context, id int64) (project.Project, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.Project{}, ErrNotFound
		}
		return project.Project{}, ErrInternal
	}
	if !p.Closed() {
		return project.Project{}, ErrProjectOpen
	}
	return p, nil
}
