package auth

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
	"github.com/jhoicas/opshub/pkg/jwt"
	"github.com/jhoicas/opshub/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, logout con revocación y permisos del usuario.
type AuthUseCase struct {
	userRepo repository.UserRepository
	revoked  repository.TokenRevocationList
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, revoked repository.TokenRevocationList, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, revoked: revoked, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// RegisterUser crea un usuario con la password hasheada con bcrypt. ErrEmployeeExists si el número ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*entity.UserProfile, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" || in.Username == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmployeeExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	roles := make([]entity.Role, 0, len(in.Roles))
	for _, r := range in.Roles {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, entity.Role(r))
		}
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		EmployeeID:   employeeID,
		Username:     in.Username,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		UserType:     in.UserType,
		Role:         in.Role,
		AreaName:     in.AreaName,
		ZoneName:     in.ZoneName,
		CircleName:   in.CircleName,
		ClusterName:  in.ClusterName,
		PasswordHash: string(hash),
		Active:       true,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// Login verifica número de empleado y password, genera JWT y retorna token + perfil.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	user, err := uc.userRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Warn().Str("employee_id", employeeID).Msg("login fallido: usuario no encontrado")
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("employee_id", employeeID).Msg("login fallido: password incorrecta")
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		uc.log.Warn().Str("employee_id", employeeID).Msg("login fallido: cuenta inactiva")
		return nil, domain.ErrInactiveUser
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.EmployeeID, user.Username, user.UserType, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("employee_id", employeeID).Msg("login correcto")
	return toLoginResponse(token, user), nil
}

// Authenticate valida firma y expiración, y rechaza tokens cerrados con logout.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.ID != "" {
		revoked, err := uc.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}
	return claims, nil
}

// Logout revoca el jti del token hasta su expiración natural.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	until := time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := uc.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return err
	}
	uc.log.Info().Str("employee_id", claims.EmployeeID).Msg("logout: token revocado")
	return nil
}

// Permissions permisos y roles efectivos del empleado.
func (uc *AuthUseCase) Permissions(ctx context.Context, employeeID string) (*dto.UserPermissionsResponse, error) {
	user, err := uc.findActive(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	perms, err := uc.userRepo.PermissionsFor(ctx, user)
	if err != nil {
		return nil, err
	}
	out := &dto.UserPermissionsResponse{
		UserID:      user.ID,
		EmployeeID:  user.EmployeeID,
		Username:    user.Username,
		Roles:       make([]string, 0, len(user.Roles)),
		Permissions: make([]string, 0, len(perms)),
	}
	for _, r := range user.Roles {
		out.Roles = append(out.Roles, string(r))
	}
	for _, p := range perms {
		out.Permissions = append(out.Permissions, string(p))
	}
	return out, nil
}

// HasPermission lo usa el middleware RequirePermission.
func (uc *AuthUseCase) HasPermission(ctx context.Context, employeeID string, perm entity.Permission) (bool, error) {
	out, err := uc.Permissions(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInactiveUser) {
			return false, nil
		}
		return false, err
	}
	set := entity.NewPermissionSet(out.Permissions, out.Roles)
	return set.Has(perm), nil
}

// Profile perfil del empleado autenticado.
func (uc *AuthUseCase) Profile(ctx context.Context, employeeID string) (*entity.UserProfile, error) {
	user, err := uc.findActive(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// Roles catálogo de roles con sus permisos, en orden estable.
func (uc *AuthUseCase) Roles(ctx context.Context) ([]dto.RoleResponse, error) {
	mapping, err := uc.userRepo.RolePermissions(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(mapping))
	for r := range mapping {
		codes = append(codes, string(r))
	}
	sort.Strings(codes)
	out := make([]dto.RoleResponse, 0, len(codes))
	for _, code := range codes {
		perms := entity.NewPermissionSet(permissionStrings(mapping[entity.Role(code)]), nil).Permissions()
		out = append(out, dto.RoleResponse{Code: code, Permissions: permissionStrings(perms)})
	}
	return out, nil
}

func (uc *AuthUseCase) findActive(ctx context.Context, employeeID string) (*entity.User, error) {
	user, err := uc.userRepo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func toLoginResponse(token string, u *entity.User) *dto.LoginResponse {
	return &dto.LoginResponse{
		Token:       token,
		EmployeeID:  u.EmployeeID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		UserType:    u.UserType,
		Role:        u.Role,
		AreaName:    u.AreaName,
		ZoneName:    u.ZoneName,
		CircleName:  u.CircleName,
		ClusterName: u.ClusterName,
	}
}

func permissionStrings(perms []entity.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}
