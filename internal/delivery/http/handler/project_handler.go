package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProjectHandler struct {
	projects usecase.ProjectUsecase
	staffing usecase.StaffingUsecase
}

func NewProjectHandler(projects usecase.ProjectUsecase, staffing usecase.StaffingUsecase) *ProjectHandler {
	return &ProjectHandler{projects: projects, staffing: staffing}
}

func (h *ProjectHandler) RegisterRoutes(r fiber.Router, hr fiber.Handler) {
	if r == nil {
		return
	}

	grp := r.Group("/projects")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Details)
	grp.Post("/", hr, h.Create)
	grp.Put("/:id", hr, h.Edit)
	grp.Post("/:id/close", hr, h.Close)
	grp.Post("/:id/backfill", hr, h.Backfill)
	grp.Delete("/:id/slots/:slotId/employee", hr, h.ReleaseSlot)
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	items, err := h.projects.List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProjectList(items))
}

func (h *ProjectHandler) Details(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.projects.Details(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProjectDetailsResponse(d))
}

// Create persists the project and staffs its roles in one step.
func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var req dto.ProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.staffing.CreateWithTeam(c.Context(), req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewStaffingResponse(res))
}

func (h *ProjectHandler) Edit(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProjectEditRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	d, err := h.projects.Edit(c.Context(), id, req.Input())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProjectDetailsResponse(d))
}

func (h *ProjectHandler) Close(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.projects.Close(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProjectResponse(p))
}

func (h *ProjectHandler) Backfill(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.staffing.Backfill(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewStaffingResponse(res))
}

func (h *ProjectHandler) ReleaseSlot(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "slotId")
	if err != nil {
		return err
	}

	if err := h.projects.ReleaseSlot(c.Context(), id, slotID); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}
