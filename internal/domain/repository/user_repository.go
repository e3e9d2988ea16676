package repository

import (
	"context"
	"time"

	"github.com/jhoicas/opshub/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User del backend de referencia (DIP).
type UserRepository interface {
	// FindByEmployeeID devuelve nil, nil si no existe.
	FindByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error)
	// PermissionsFor resuelve los permisos efectivos de los roles del usuario.
	PermissionsFor(ctx context.Context, user *entity.User) ([]entity.Permission, error)
	Create(ctx context.Context, user *entity.User) error
	// RolePermissions mapeo vigente rol -> permisos.
	RolePermissions(ctx context.Context) (map[entity.Role][]entity.Permission, error)
}

// TokenRevocationList registra los jti cerrados con logout hasta su expiración natural.
type TokenRevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
