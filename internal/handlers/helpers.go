package handlers

import (
	"errors"
	"strings"

	"github.com/cloudvault/backend/internal/services"
	"github.com/cloudvault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError translates the services error taxonomy to HTTP statuses.
// notFoundMessage keeps per-resource wording without leaking internals.
func serviceError(c *fiber.Ctx, err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.Error(c, fiber.StatusBadRequest, validationMessage(err))
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, notFoundMessage)
	case errors.Is(err, services.ErrDuplicateIdentity):
		return utils.Error(c, fiber.StatusConflict, "username or email already taken")
	case errors.Is(err, services.ErrDuplicateFolder):
		return utils.Error(c, fiber.StatusConflict, "folder already exists")
	case errors.Is(err, services.ErrStorageFault):
		return utils.Error(c, fiber.StatusInternalServerError, "storage failure")
	default:
		return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func validationMessage(err error) string {
	message := err.Error()
	if trimmed := strings.TrimPrefix(message, services.ErrValidation.Error()+": "); trimmed != message {
		return trimmed
	}
	return message
}
