package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/pkg/logger"
)

// permissionChecker es el contrato mínimo que necesita el middleware para verificar permisos.
// Lo implementa *auth.AuthUseCase; el uso de interfaz evita el import circular.
type permissionChecker interface {
	HasPermission(ctx context.Context, employeeID string, perm entity.Permission) (bool, error)
}

// RequirePermission devuelve un middleware Fiber que exige al menos uno de los permisos.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalEmployeeID).
//
// Comportamiento:
//   - 401 si no hay employeeID en el contexto.
//   - 403 si no tiene ninguno de los permisos (sin permisos listados, siempre 403).
//   - 503 si falla la consulta de permisos.
func RequirePermission(checker permissionChecker, log *logger.Logger, perms ...entity.Permission) fiber.Handler {
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, string(p))
	}
	denied := "Access denied. Required permissions: " + strings.Join(codes, ", ")

	return func(c *fiber.Ctx) error {
		employeeID := GetEmployeeID(c)
		if employeeID == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}

		for _, p := range perms {
			ok, err := checker.HasPermission(c.UserContext(), employeeID, p)
			if err != nil {
				log.Error().Err(err).Str("employee_id", employeeID).Msg("no se pudo verificar el permiso")
				return writeError(c, fiber.StatusServiceUnavailable, "PERMISSION_CHECK_FAILED",
					"no se pudo verificar el permiso, intente más tarde")
			}
			if ok {
				return c.Next()
			}
		}

		log.Warn().Str("employee_id", employeeID).Strs("required", codes).Msg("acceso denegado")
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", denied)
	}
}
