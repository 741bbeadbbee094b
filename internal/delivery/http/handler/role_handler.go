package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RoleHandler struct {
	uc usecase.RoleUsecase
}

func NewRoleHandler(uc usecase.RoleUsecase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

func (h *RoleHandler) RegisterRoutes(r fiber.Router, hr fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/projects/:id/assignments", h.List)
	r.Get("/projects/:id/available-employees", h.AvailableEmployees)
	r.Post("/projects/:id/assignments", hr, h.Assign)
	r.Put("/assignments/:id", hr, h.EditRole)
	r.Delete("/assignments/:id", hr, h.Remove)
}

func (h *RoleHandler) List(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	pa, err := h.uc.List(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProjectAssignmentsResponse(pa))
}

func (h *RoleHandler) AvailableEmployees(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.AvailableEmployees(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewEmployeeList(items))
}

func (h *RoleHandler) Assign(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AssignRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	a, err := h.uc.Assign(c.Context(), id, req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewAssignmentResponse(a))
}

func (h *RoleHandler) EditRole(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.EditRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	a, err := h.uc.EditRole(c.Context(), id, usecase.EditRoleInput{Role: req.Role})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewAssignmentResponse(a))
}

func (h *RoleHandler) Remove(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Remove(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}
