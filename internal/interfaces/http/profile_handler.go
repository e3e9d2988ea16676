package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/domain"
)

// ProfileHandler perfil del usuario autenticado.
type ProfileHandler struct {
	uc *auth.AuthUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *auth.AuthUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// MyProfile godoc
// @Summary      Perfil del usuario autenticado
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.UserProfile
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/profile/my-profile [get]
func (h *ProfileHandler) MyProfile(c *fiber.Ctx) error {
	out, err := h.uc.Profile(c.UserContext(), GetEmployeeID(c))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// accountError traduce los fallos de cuenta: un usuario que desaparece o se desactiva
// con un token vigente recibe 401 para que el cliente cierre la sesión.
func accountError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, domain.ErrInactiveUser):
		return writeError(c, fiber.StatusUnauthorized, "INACTIVE_USER", domain.MsgInactiveUser)
	}
	return internalError(c, err)
}
