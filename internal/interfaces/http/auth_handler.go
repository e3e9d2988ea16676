package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/domain"
)

// AuthHandler maneja login y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "employeeId, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.EmployeeID) == "" {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION", "Employee ID is required")
	}
	if in.Password == "" {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION", "Password is required")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", domain.MsgInvalidLogin)
		case errors.Is(err, domain.ErrInactiveUser):
			return writeError(c, fiber.StatusUnauthorized, "INACTIVE_USER", domain.MsgInactiveUser)
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token actual)
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StatusResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetClaims(c)); err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: "logged_out"})
}
