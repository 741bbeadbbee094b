package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type EmployeeHandler struct {
	uc usecase.EmployeeUsecase
}

func NewEmployeeHandler(uc usecase.EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

func (h *EmployeeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/employees")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
}

func (h *EmployeeHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewEmployeeList(items))
}

func (h *EmployeeHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	e, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewEmployeeResponse(e))
}

func (h *EmployeeHandler) Create(c fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	created, err := h.uc.Create(c.Context(), req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewEmployeeResponse(created))
}

func (h *EmployeeHandler) Update(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.EmployeeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	updated, err := h.uc.Update(c.Context(), id, req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewEmployeeResponse(updated))
}

func (h *EmployeeHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}
