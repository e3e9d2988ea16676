package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/application/dto"
)

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func internalError(c *fiber.Ctx, err error) error {
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
}
