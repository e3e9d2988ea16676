// Package guard decide qué partes de la interfaz se muestran según el Auth Context.
// Los guards son puros: no hacen llamadas de red ni tocan el Token Store.
package guard

import (
	"github.com/jhoicas/opshub/internal/application/session"
	"github.com/jhoicas/opshub/internal/domain/entity"
)

// Checker lo que un guard necesita del Auth Context.
type Checker interface {
	State() session.State
	HasAnyPermission(codes ...entity.Permission) bool
	HasAllPermissions(codes ...entity.Permission) bool
	HasAnyRole(codes ...entity.Role) bool
	HasAllRoles(codes ...entity.Role) bool
}

var _ Checker = (*session.AuthContext)(nil)

// Decision resultado de evaluar un guard.
type Decision int

const (
	// Pending el estado aún carga: no se muestra ni el contenido ni el fallback.
	Pending Decision = iota
	Granted
	Denied
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Granted:
		return "granted"
	default:
		return "denied"
	}
}

// Guard cualquier condición evaluable contra un Checker.
type Guard interface {
	Evaluate(c Checker) Decision
}

// PermissionGuard exige uno o varios permisos. Por defecto basta con uno (ANY).
type PermissionGuard struct {
	Permissions []entity.Permission
	RequireAll  bool
}

// RequirePermission guard de un único permiso.
func RequirePermission(code entity.Permission) PermissionGuard {
	return PermissionGuard{Permissions: []entity.Permission{code}}
}

// RequireAnyPermission concede con cualquiera de los permisos.
func RequireAnyPermission(codes ...entity.Permission) PermissionGuard {
	return PermissionGuard{Permissions: codes}
}

// RequireAllPermissions concede solo con todos los permisos.
func RequireAllPermissions(codes ...entity.Permission) PermissionGuard {
	return PermissionGuard{Permissions: codes, RequireAll: true}
}

func (g PermissionGuard) Evaluate(c Checker) Decision {
	if pending(c) {
		return Pending
	}
	if g.RequireAll {
		return decide(c.HasAllPermissions(g.Permissions...))
	}
	return decide(c.HasAnyPermission(g.Permissions...))
}

// RoleGuard equivalente a PermissionGuard sobre roles.
type RoleGuard struct {
	Roles      []entity.Role
	RequireAll bool
}

func RequireRole(code entity.Role) RoleGuard {
	return RoleGuard{Roles: []entity.Role{code}}
}

func RequireAnyRole(codes ...entity.Role) RoleGuard {
	return RoleGuard{Roles: codes}
}

func RequireAllRoles(codes ...entity.Role) RoleGuard {
	return RoleGuard{Roles: codes, RequireAll: true}
}

func (g RoleGuard) Evaluate(c Checker) Decision {
	if pending(c) {
		return Pending
	}
	if g.RequireAll {
		return decide(c.HasAllRoles(g.Roles...))
	}
	return decide(c.HasAnyRole(g.Roles...))
}

// Render ejecuta content si el guard concede, fallback (opcional) si deniega y nada mientras carga.
func Render(g Guard, c Checker, content, fallback func()) Decision {
	d := g.Evaluate(c)
	switch d {
	case Granted:
		if content != nil {
			content()
		}
	case Denied:
		if fallback != nil {
			fallback()
		}
	}
	return d
}

func pending(c Checker) bool {
	return c == nil || c.State() == session.Loading
}

func decide(ok bool) Decision {
	if ok {
		return Granted
	}
	return Denied
}
