package handler

import (
	"errors"
	"strconv"

	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// formErrorKey carries messages that belong to the whole form.
const formErrorKey = "form"

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", validationData(verr), err)
	}
	var exists *usecase.RatingExistsError
	if errors.As(err, &exists) {
		return middleware.NewAppError(fiber.StatusConflict, "This assignment has already been rated",
			fiber.Map{"project_id": exists.ProjectID}, err)
	}

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrProjectClosed):
		return middleware.NewAppError(fiber.StatusConflict, "Project is closed", nil, err)
	case errors.Is(err, usecase.ErrProjectOpen):
		return middleware.NewAppError(fiber.StatusConflict, "Project is not closed yet", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func validationData(verr *usecase.ValidationError) map[string]string {
	out := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		if k == usecase.FormKey {
			k = formErrorKey
		}
		out[k] = v
	}
	return out
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

func pathID(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return badRequest(err)
	}
	return nil
}
