package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo repositorio de usuarios en memoria. Se usa cuando no hay base de datos configurada.
type UserRepo struct {
	mu        sync.RWMutex
	users     map[string]entity.User
	rolePerms map[entity.Role][]entity.Permission
}

// NewUserRepository construye el repositorio con el mapeo rol -> permisos indicado
// (nil usa entity.DefaultRolePermissions).
func NewUserRepository(rolePerms map[entity.Role][]entity.Permission) *UserRepo {
	if rolePerms == nil {
		rolePerms = entity.DefaultRolePermissions()
	}
	return &UserRepo{users: make(map[string]entity.User), rolePerms: rolePerms}
}

func (r *UserRepo) FindByEmployeeID(_ context.Context, employeeID string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[employeeID]
	if !ok {
		return nil, nil
	}
	u.Roles = append([]entity.Role(nil), u.Roles...)
	return &u, nil
}

func (r *UserRepo) PermissionsFor(_ context.Context, user *entity.User) ([]entity.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[entity.Permission]struct{})
	out := make([]entity.Permission, 0)
	for _, role := range user.Roles {
		for _, p := range r.rolePerms[role] {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.EmployeeID]; exists {
		return domain.ErrEmployeeExists
	}
	u := *user
	u.Roles = append([]entity.Role(nil), user.Roles...)
	r.users[user.EmployeeID] = u
	return nil
}

func (r *UserRepo) RolePermissions(context.Context) (map[entity.Role][]entity.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[entity.Role][]entity.Permission, len(r.rolePerms))
	for role, perms := range r.rolePerms {
		out[role] = append([]entity.Permission(nil), perms...)
	}
	return out, nil
}

// SetActive activa o desactiva un usuario.
func (r *UserRepo) SetActive(employeeID string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[employeeID]
	if !ok {
		return false
	}
	u.Active = active
	r.users[employeeID] = u
	return true
}
