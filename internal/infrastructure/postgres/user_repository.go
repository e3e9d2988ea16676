package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool, tx: NewTxRunner(pool)}
}

const selectUser = `
	SELECT u.id, u.employee_id, u.username, u.full_name, u.email, u.phone, u.user_type, u.role,
	       u.area_name, u.zone_name, u.circle_name, u.cluster_name, u.password_hash, u.active,
	       u.created_at, u.updated_at,
	       COALESCE(array_agg(ur.role_code ORDER BY ur.role_code) FILTER (WHERE r.code IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.code = ur.role_code AND r.active
	WHERE u.employee_id = $1
	GROUP BY u.id`

// FindByEmployeeID obtiene un usuario con sus roles activos. nil, nil si no existe.
func (r *UserRepo) FindByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error) {
	var u entity.User
	var roles []string
	err := r.pool.QueryRow(ctx, selectUser, employeeID).Scan(
		&u.ID, &u.EmployeeID, &u.Username, &u.FullName, &u.Email, &u.Phone, &u.UserType, &u.Role,
		&u.AreaName, &u.ZoneName, &u.CircleName, &u.ClusterName, &u.PasswordHash, &u.Active,
		&u.CreatedAt, &u.UpdatedAt, &roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by employee id: %w", err)
	}
	u.Roles = make([]entity.Role, 0, len(roles))
	for _, code := range roles {
		u.Roles = append(u.Roles, entity.Role(code))
	}
	return &u, nil
}

// PermissionsFor permisos activos de los roles del usuario, sin duplicados.
func (r *UserRepo) PermissionsFor(ctx context.Context, user *entity.User) ([]entity.Permission, error) {
	query := `
		SELECT DISTINCT rp.permission_code
		FROM user_roles ur
		JOIN roles r ON r.code = ur.role_code AND r.active
		JOIN role_permissions rp ON rp.role_code = ur.role_code
		JOIN permissions p ON p.code = rp.permission_code AND p.active
		WHERE ur.user_id = $1
		ORDER BY rp.permission_code`
	rows, err := r.pool.Query(ctx, query, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan user permissions: %w", err)
	}
	out := make([]entity.Permission, 0, len(codes))
	for _, c := range codes {
		out = append(out, entity.Permission(c))
	}
	return out, nil
}

// Create persiste el usuario y sus roles en una transacción.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO users (id, employee_id, username, full_name, email, phone, user_type, role,
			                   area_name, zone_name, circle_name, cluster_name, password_hash, active,
			                   created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			user.ID, user.EmployeeID, user.Username, user.FullName, user.Email, user.Phone, user.UserType, user.Role,
			user.AreaName, user.ZoneName, user.CircleName, user.ClusterName, user.PasswordHash, user.Active,
			user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmployeeExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		for _, role := range user.Roles {
			if _, err := q.Exec(ctx, `INSERT INTO user_roles (user_id, role_code) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				user.ID, string(role)); err != nil {
				if isForeignKeyViolation(err) {
					return fmt.Errorf("rol %s: %w", role, domain.ErrInvalidInput)
				}
				return fmt.Errorf("insert user role: %w", err)
			}
		}
		return nil
	})
}

// RolePermissions mapeo rol activo -> permisos activos.
func (r *UserRepo) RolePermissions(ctx context.Context) (map[entity.Role][]entity.Permission, error) {
	query := `
		SELECT r.code, COALESCE(array_agg(p.code ORDER BY p.code) FILTER (WHERE p.code IS NOT NULL), '{}')
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_code = r.code
		LEFT JOIN permissions p ON p.code = rp.permission_code AND p.active
		WHERE r.active
		GROUP BY r.code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.Role][]entity.Permission)
	for rows.Next() {
		var role string
		var perms []string
		if err := rows.Scan(&role, &perms); err != nil {
			return nil, fmt.Errorf("scan role permissions: %w", err)
		}
		list := make([]entity.Permission, 0, len(perms))
		for _, p := range perms {
			list = append(list, entity.Permission(p))
		}
		out[entity.Role(role)] = list
	}
	return out, rows.Err()
}

// SeedRBAC inserta el catálogo de permisos y el mapeo por defecto de roles. Es idempotente.
func (r *UserRepo) SeedRBAC(ctx context.Context, mapping map[entity.Role][]entity.Permission) error {
	return r.tx.Run(ctx, func(q Querier) error {
		for _, p := range entity.AllPermissions() {
			if _, err := q.Exec(ctx, `INSERT INTO permissions (code) VALUES ($1) ON CONFLICT DO NOTHING`, string(p)); err != nil {
				return fmt.Errorf("seed permission: %w", err)
			}
		}
		for role, perms := range mapping {
			if _, err := q.Exec(ctx, `INSERT INTO roles (code) VALUES ($1) ON CONFLICT DO NOTHING`, string(role)); err != nil {
				return fmt.Errorf("seed role: %w", err)
			}
			for _, p := range perms {
				if _, err := q.Exec(ctx, `
					INSERT INTO role_permissions (role_code, permission_code) VALUES ($1, $2)
					ON CONFLICT DO NOTHING`, string(role), string(p)); err != nil {
					return fmt.Errorf("seed role permission: %w", err)
				}
			}
		}
		return nil
	})
}
