package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/rating"
	"competency-hub/internal/repository"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUsecaseError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", usecase.NewValidationError("score", "out of range"), fiber.StatusUnprocessableEntity},
		{"rating exists", &usecase.RatingExistsError{ProjectID: 3}, fiber.StatusConflict},
		{"not found", fmt.Errorf("project 9: %w", usecase.ErrNotFound), fiber.StatusNotFound},
		{"closed", usecase.ErrProjectClosed, fiber.StatusConflict},
		{"open", usecase.ErrProjectOpen, fiber.StatusConflict},
		{"unauthorized", usecase.ErrUnauthorized, fiber.StatusUnauthorized},
		{"forbidden", usecase.ErrForbidden, fiber.StatusForbidden},
		{"invalid input", usecase.ErrInvalidInput, fiber.StatusBadRequest},
		{"staffing", usecase.ErrStaffingFailed, fiber.StatusInternalServerError},
		{"unknown", errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var appErr *middleware.AppError
			require.ErrorAs(t, mapUsecaseError(tc.err), &appErr)
			assert.Equal(t, tc.status, appErr.StatusCode)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}

	assert.NoError(t, mapUsecaseError(nil))
}

func TestMapUsecaseError_FormMessageKey(t *testing.T) {
	verr := &usecase.ValidationError{Fields: map[string]string{
		usecase.FormKey: "project has no roles",
		"name":          "required",
	}}

	var appErr *middleware.AppError
	require.ErrorAs(t, mapUsecaseError(verr), &appErr)
	assert.Equal(t, map[string]string{"form": "project has no roles", "name": "required"}, appErr.Data)
}

type stubRatings struct {
	gotID    int64
	gotInput usecase.RatingInput
	result   usecase.RatingResult
	err      error
}

func (s *stubRatings) Dashboard(context.Context) ([]repository.PendingProject, error) {
	return nil, s.err
}

func (s *stubRatings) ReviewList(context.Context, int64) (usecase.ReviewList, error) {
	return usecase.ReviewList{}, s.err
}

func (s *stubRatings) Rate(_ context.Context, assignmentID int64, in usecase.RatingInput) (usecase.RatingResult, error) {
	s.gotID = assignmentID
	s.gotInput = in
	return s.result, s.err
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRatingApp(t *testing.T, uc usecase.RatingUsecase) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware(zerolog.Nop()).Middleware())
	NewRatingHandler(uc).RegisterRoutes(app.Group("/api/v1"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, target, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest("POST", target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRatingHandler_Rate(t *testing.T) {
	uc := &stubRatings{result: usecase.RatingResult{
		Rating: rating.MonthlyRating{
			ID: 11, AssignmentID: 5, Score: 2, Comment: "Anonim",
			Date: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		ProjectID:           4,
		DevelopmentProposal: true,
		Message:             "propose a development plan",
	}}
	app := newRatingApp(t, uc)

	status, env := postJSON(t, app, "/api/v1/ratings/assignments/5", `{"score":2,"comment":"Szef","date":"2026-07-01"}`)

	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, int64(5), uc.gotID)
	assert.Equal(t, 2, uc.gotInput.Score)
	assert.Equal(t, "Szef", uc.gotInput.Comment)
	require.NotNil(t, uc.gotInput.Date)
	assert.Equal(t, "2026-07-01", uc.gotInput.Date.Format("2006-01-02"))

	var data struct {
		Rating struct {
			Comment string `json:"comment"`
			Date    string `json:"date"`
		} `json:"rating"`
		ProjectID           int64 `json:"project_id"`
		DevelopmentProposal bool  `json:"development_proposal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Anonim", data.Rating.Comment)
	assert.Equal(t, "2026-07-01", data.Rating.Date)
	assert.Equal(t, int64(4), data.ProjectID)
	assert.True(t, data.DevelopmentProposal)
}

func TestRatingHandler_RateErrors(t *testing.T) {
	t.Run("duplicate points at project", func(t *testing.T) {
		app := newRatingApp(t, &stubRatings{err: &usecase.RatingExistsError{ProjectID: 8}})

		status, env := postJSON(t, app, "/api/v1/ratings/assignments/5", `{"score":7}`)

		assert.Equal(t, fiber.StatusConflict, status)
		assert.JSONEq(t, `{"project_id":8}`, string(env.Data))
	})

	t.Run("validation fields", func(t *testing.T) {
		app := newRatingApp(t, &stubRatings{err: usecase.NewValidationError("score", "score must be between 1 and 10")})

		status, env := postJSON(t, app, "/api/v1/ratings/assignments/5", `{"score":11}`)

		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.JSONEq(t, `{"score":"score must be between 1 and 10"}`, string(env.Data))
	})

	t.Run("bad path id", func(t *testing.T) {
		uc := &stubRatings{}
		app := newRatingApp(t, uc)

		status, _ := postJSON(t, app, "/api/v1/ratings/assignments/abc", `{"score":7}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Zero(t, uc.gotID)
	})

	t.Run("malformed date", func(t *testing.T) {
		uc := &stubRatings{}
		app := newRatingApp(t, uc)

		status, _ := postJSON(t, app, "/api/v1/ratings/assignments/5", `{"score":7,"date":"July"}`)

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Zero(t, uc.gotID)
	})
}
