package ports

import (
	"context"

	"github.com/jhoicas/opshub/internal/domain/entity"
)

// AuthAPI operaciones remotas que necesita el Auth Context.
// El cliente REST la implementa; los tests usan fakes que bloquean o fallan a voluntad.
type AuthAPI interface {
	// Login autentica y persiste la sesión en el Token Store.
	Login(ctx context.Context, employeeID, password string) (*entity.Session, error)
	// Logout invalida la sesión en el servidor. Best-effort.
	Logout(ctx context.Context) error
	// MyPermissions devuelve los permisos y roles del usuario del token actual.
	MyPermissions(ctx context.Context) (entity.PermissionSet, error)
}

// SessionExpiryNotifier fuente de expiraciones de sesión detectadas fuera del Auth Context (401).
type SessionExpiryNotifier interface {
	OnSessionExpired(fn func())
}
