package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CompetencyHandler struct {
	uc usecase.CompetencyUsecase
}

func NewCompetencyHandler(uc usecase.CompetencyUsecase) *CompetencyHandler {
	return &CompetencyHandler{uc: uc}
}

func (h *CompetencyHandler) RegisterRoutes(r fiber.Router, hr fiber.Handler) {
	if r == nil {
		return
	}

	grp := r.Group("/competencies", hr)
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.UpdateLevel)
	grp.Delete("/:id", h.Delete)
}

func (h *CompetencyHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	comp, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCompetencyResponse(comp))
}

func (h *CompetencyHandler) Create(c fiber.Ctx) error {
	var req dto.CompetencyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	created, err := h.uc.Create(c.Context(), usecase.CompetencyInput{
		EmployeeID:  req.EmployeeID,
		SkillTypeID: req.SkillTypeID,
		Level:       req.Level,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewCompetencyResponse(created))
}

func (h *CompetencyHandler) UpdateLevel(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CompetencyLevelRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	updated, err := h.uc.UpdateLevel(c.Context(), id, usecase.CompetencyLevelInput{Level: req.Level})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewCompetencyResponse(updated))
}

func (h *CompetencyHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}
