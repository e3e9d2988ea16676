package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/pkg/jwt"
)

// Locals keys que deja AuthMiddleware en el contexto de Fiber.
const (
	LocalEmployeeID = "employee_id"
	LocalClaims     = "claims"
)

// tokenAuthenticator valida el token y devuelve sus claims. Lo implementa *auth.AuthUseCase.
type tokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga employeeID y claims en c.Locals.
// Las URLs de descarga llevan el token en ?token= porque se abren fuera del cliente.
func AuthMiddleware(authn tokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		if tokenString == "" {
			return writeError(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authentication required")
		}
		claims, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrTokenRevoked) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado")
			}
			return internalError(c, err)
		}
		c.Locals(LocalEmployeeID, claims.EmployeeID)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// bearerToken devuelve false solo si hay cabecera Authorization con formato incorrecto.
func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return strings.TrimSpace(c.Query("token")), true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// GetEmployeeID devuelve el employeeID del contexto (después del middleware de auth).
func GetEmployeeID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmployeeID).(string)
	return s
}

// GetClaims devuelve los claims del token validado, o nil.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}
