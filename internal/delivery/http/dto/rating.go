package dto

import (
	"time"

	"competency-hub/internal/domain/rating"
	"competency-hub/internal/domain/user"
	"competency-hub/internal/repository"
	"competency-hub/internal/usecase"

	"github.com/ecodeclub/ekit/slice"
	"github.com/google/uuid"
)

type RatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
	Date    *Date  `json:"date"`
}

func (r RatingRequest) Input() usecase.RatingInput {
	return usecase.RatingInput{Score: r.Score, Comment: r.Comment, Date: r.Date.TimePtr()}
}

type RatingResponse struct {
	ID           int64  `json:"id"`
	AssignmentID int64  `json:"assignment_id"`
	Score        int    `json:"score"`
	Comment      string `json:"comment"`
	Date         Date   `json:"date"`
}

func NewRatingResponse(r rating.MonthlyRating) RatingResponse {
	return RatingResponse{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		Score:        r.Score,
		Comment:      r.Comment,
		Date:         NewDate(r.Date),
	}
}

type RatingResultResponse struct {
	Rating              RatingResponse `json:"rating"`
	ProjectID           int64          `json:"project_id"`
	DevelopmentProposal bool           `json:"development_proposal"`
	Message             string         `json:"message,omitempty"`
}

func NewRatingResultResponse(r usecase.RatingResult) RatingResultResponse {
	return RatingResultResponse{
		Rating:              NewRatingResponse(r.Rating),
		ProjectID:           r.ProjectID,
		DevelopmentProposal: r.DevelopmentProposal,
		Message:             r.Message,
	}
}

type ReviewItemResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Rating     *RatingResponse    `json:"rating"`
}

type ReviewListResponse struct {
	Project ProjectResponse      `json:"project"`
	Items   []ReviewItemResponse `json:"items"`
}

func NewReviewListResponse(l usecase.ReviewList) ReviewListResponse {
	return ReviewListResponse{
		Project: NewProjectResponse(l.Project),
		Items: slice.Map(l.Items, func(_ int, it usecase.ReviewItem) ReviewItemResponse {
			out := ReviewItemResponse{Assignment: NewAssignmentResponse(it.Assignment)}
			if it.Rating != nil {
				r := NewRatingResponse(*it.Rating)
				out.Rating = &r
			}
			return out
		}),
	}
}

type PendingProjectResponse struct {
	Project     ProjectResponse `json:"project"`
	Assignments int             `json:"assignments"`
	Unrated     int             `json:"unrated"`
}

func NewDashboard(items []repository.PendingProject) []PendingProjectResponse {
	return slice.Map(items, func(_ int, p repository.PendingProject) PendingProjectResponse {
		return PendingProjectResponse{
			Project:     NewProjectResponse(p.Project),
			Assignments: p.Assignments,
			Unrated:     p.Unrated,
		}
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

type SessionResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
}

func NewSessionResponse(s usecase.Session) SessionResponse {
	return SessionResponse{
		User:        NewUserResponse(s.User),
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
