package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

// PermissionHandler expone los permisos efectivos y los catálogos.
type PermissionHandler struct {
	uc *auth.AuthUseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *auth.AuthUseCase) *PermissionHandler {
	return &PermissionHandler{uc: uc}
}

// Me godoc
// @Summary      Permisos y roles del usuario autenticado
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserPermissionsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/permissions/me [get]
func (h *PermissionHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Permissions(c.UserContext(), GetEmployeeID(c))
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(out)
}

// All godoc
// @Summary      Catálogo de permisos
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.PermissionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/all [get]
func (h *PermissionHandler) All(c *fiber.Ctx) error {
	perms := entity.AllPermissions()
	out := make([]dto.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		action, resource, _ := strings.Cut(string(p), "_")
		out = append(out, dto.PermissionResponse{Code: string(p), Action: action, Resource: resource, Active: true})
	}
	return c.JSON(out)
}

// Roles godoc
// @Summary      Roles con sus permisos
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.RoleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/roles [get]
func (h *PermissionHandler) Roles(c *fiber.Ctx) error {
	out, err := h.uc.Roles(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}
