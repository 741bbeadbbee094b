package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RatingHandler struct {
	uc usecase.RatingUsecase
}

func NewRatingHandler(uc usecase.RatingUsecase) *RatingHandler {
	return &RatingHandler{uc: uc}
}

func (h *RatingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/ratings")
	grp.Get("/dashboard", h.Dashboard)
	grp.Get("/projects/:id", h.ReviewList)
	grp.Post("/assignments/:id", h.Rate)
}

func (h *RatingHandler) Dashboard(c fiber.Ctx) error {
	items, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewDashboard(items))
}

func (h *RatingHandler) ReviewList(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	list, err := h.uc.ReviewList(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewReviewListResponse(list))
}

func (h *RatingHandler) Rate(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RatingRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.Rate(c.Context(), id, req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewRatingResultResponse(res))
}
