package entity

import (
	"sort"
	"strings"
)

// Permission código de una acción autorizable. El formato en el cable es el string.
type Permission string

// Role código de un rol (agrupa permisos; se usa para ramificaciones gruesas de la UI).
type Role string

// Permisos conocidos.
const (
	PermViewCustomers   Permission = "VIEW_CUSTOMERS"
	PermAssignCustomers Permission = "ASSIGN_CUSTOMERS"
	PermCollectPayment  Permission = "COLLECT_PAYMENT"
	PermApproveProfile  Permission = "APPROVE_PROFILE"
	PermViewReports     Permission = "VIEW_REPORTS"
	PermExportReports   Permission = "EXPORT_REPORTS"
	PermUseAIAgent      Permission = "USE_AI_AGENT"
	PermViewPermissions Permission = "VIEW_PERMISSIONS"
	PermViewRoles       Permission = "VIEW_ROLES"
	PermManageUsers     Permission = "MANAGE_USERS"
	PermManageCustomers Permission = "MANAGE_CUSTOMERS"
	PermViewVisits      Permission = "VIEW_VISITS"
	PermCreateVisits    Permission = "CREATE_VISITS"
	PermViewPayments    Permission = "VIEW_PAYMENTS"
	PermManageSettings  Permission = "MANAGE_SETTINGS"
)

// Roles conocidos.
const (
	RoleAdmin Role = "ADMIN"
	RoleLead  Role = "LEAD"
	RoleAgent Role = "AGENT"
)

var knownPermissions = map[Permission]struct{}{
	PermViewCustomers: {}, PermAssignCustomers: {}, PermCollectPayment: {}, PermApproveProfile: {},
	PermViewReports: {}, PermExportReports: {}, PermUseAIAgent: {}, PermViewPermissions: {},
	PermViewRoles: {}, PermManageUsers: {}, PermManageCustomers: {}, PermViewVisits: {},
	PermCreateVisits: {}, PermViewPayments: {}, PermManageSettings: {},
}

var knownRoles = map[Role]struct{}{RoleAdmin: {}, RoleLead: {}, RoleAgent: {}}

// Known informa si el código pertenece al catálogo compilado.
// Los códigos desconocidos que llegan del servidor se conservan igualmente.
func (p Permission) Known() bool {
	_, ok := knownPermissions[p]
	return ok
}

// Known informa si el rol pertenece al catálogo compilado.
func (r Role) Known() bool {
	_, ok := knownRoles[r]
	return ok
}

// AllPermissions catálogo completo en orden estable.
func AllPermissions() []Permission {
	out := make([]Permission, 0, len(knownPermissions))
	for p := range knownPermissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultRolePermissions mapeo rol -> permisos que siembra el backend de referencia.
// ADMIN tiene todo; LEAD todo salvo gestión de usuarios y ajustes; AGENT lo operativo básico.
func DefaultRolePermissions() map[Role][]Permission {
	return map[Role][]Permission{
		RoleAdmin: AllPermissions(),
		RoleLead: {
			PermViewCustomers, PermAssignCustomers, PermCollectPayment, PermApproveProfile,
			PermViewReports, PermExportReports, PermUseAIAgent, PermViewPermissions, PermViewRoles,
			PermManageCustomers, PermViewVisits, PermCreateVisits, PermViewPayments,
		},
		RoleAgent: {
			PermViewCustomers, PermCollectPayment, PermViewReports, PermUseAIAgent,
			PermViewVisits, PermCreateVisits, PermViewPayments,
		},
	}
}

// PermissionSet permisos y roles del usuario autenticado. Inmutable una vez construido.
// El valor cero es un conjunto vacío válido: cualquier consulta devuelve false.
type PermissionSet struct {
	permissions map[Permission]struct{}
	roles       map[Role]struct{}
}

// NewPermissionSet normaliza los códigos del cable: nil pasa a vacío, se recortan espacios,
// se descartan vacíos y duplicados.
func NewPermissionSet(permissions, roles []string) PermissionSet {
	ps := PermissionSet{
		permissions: make(map[Permission]struct{}, len(permissions)),
		roles:       make(map[Role]struct{}, len(roles)),
	}
	for _, p := range permissions {
		if p = strings.TrimSpace(p); p != "" {
			ps.permissions[Permission(p)] = struct{}{}
		}
	}
	for _, r := range roles {
		if r = strings.TrimSpace(r); r != "" {
			ps.roles[Role(r)] = struct{}{}
		}
	}
	return ps
}

// Empty true si no hay ni permisos ni roles.
func (s PermissionSet) Empty() bool {
	return len(s.permissions) == 0 && len(s.roles) == 0
}

// Has true si el código está en el conjunto.
func (s PermissionSet) Has(code Permission) bool {
	_, ok := s.permissions[code]
	return ok
}

// HasAny true si alguno de los códigos está. Sin códigos devuelve false.
func (s PermissionSet) HasAny(codes ...Permission) bool {
	for _, c := range codes {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// HasAll true si todos los códigos están. Sin códigos devuelve true (verdad vacía);
// el Auth Context niega igualmente mientras no hay sesión autenticada.
func (s PermissionSet) HasAll(codes ...Permission) bool {
	for _, c := range codes {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// HasRole true si el rol está en el conjunto.
func (s PermissionSet) HasRole(code Role) bool {
	_, ok := s.roles[code]
	return ok
}

// HasAnyRole true si alguno de los roles está. Sin roles devuelve false.
func (s PermissionSet) HasAnyRole(codes ...Role) bool {
	for _, c := range codes {
		if s.HasRole(c) {
			return true
		}
	}
	return false
}

// HasAllRoles true si todos los roles están. Sin roles devuelve true, igual que HasAll.
func (s PermissionSet) HasAllRoles(codes ...Role) bool {
	for _, c := range codes {
		if !s.HasRole(c) {
			return false
		}
	}
	return true
}

// Permissions códigos ordenados.
func (s PermissionSet) Permissions() []Permission {
	out := make([]Permission, 0, len(s.permissions))
	for p := range s.permissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Roles códigos ordenados.
func (s PermissionSet) Roles() []Role {
	out := make([]Role, 0, len(s.roles))
	for r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
