package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillTypeHandler struct {
	uc usecase.SkillTypeUsecase
}

func NewSkillTypeHandler(uc usecase.SkillTypeUsecase) *SkillTypeHandler {
	return &SkillTypeHandler{uc: uc}
}

// RegisterRoutes mounts the skill-type routes. hr guards every write.
func (h *SkillTypeHandler) RegisterRoutes(r fiber.Router, hr fiber.Handler) {
	if r == nil {
		return
	}

	grp := r.Group("/skill-types")
	grp.Get("/", h.List)
	grp.Post("/", hr, h.Create)
	grp.Get("/:id/delete-check", hr, h.DeleteCheck)
	grp.Delete("/:id", hr, h.Delete)
}

func (h *SkillTypeHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewSkillTypeList(items))
}

func (h *SkillTypeHandler) Create(c fiber.Ctx) error {
	var req dto.SkillTypeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	created, err := h.uc.Create(c.Context(), usecase.SkillTypeInput{Name: req.Name})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.SkillTypeResponse{ID: created.ID, Name: created.Name})
}

func (h *SkillTypeHandler) DeleteCheck(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	check, err := h.uc.DeleteCheck(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewDeleteCheckResponse(check))
}

func (h *SkillTypeHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}
