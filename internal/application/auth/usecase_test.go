package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/infrastructure/memory"
)

const testSecret = "test-secret-key-for-unit-tests"

func newUseCase(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	repo := memory.NewUserRepository(nil)
	uc := auth.NewAuthUseCase(repo, memory.NewRevocationList(), auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "ops-hub-test",
	}, nil)
	n, err := uc.SeedUsers(context.Background(), auth.DefaultUsers())
	require.NoError(t, err)
	require.Equal(t, len(auth.DefaultUsers()), n)
	return uc, repo
}

// ──── Seed / registro ──────────────────────────────────────────────────────────

func TestSeedUsers_EsIdempotente(t *testing.T) {
	uc, _ := newUseCase(t)
	n, err := uc.SeedUsers(context.Background(), auth.DefaultUsers())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{EmployeeID: "EMP100", Username: "x", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{EmployeeID: "EMP001", Username: "x", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmployeeExists)
}

// ──── Login ────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidasDevuelveTokenYPerfil(t *testing.T) {
	uc, _ := newUseCase(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{EmployeeID: " EMP001 ", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "EMP001", out.EmployeeID)
	assert.Equal(t, "Shivam Kumar", out.FullName)
	assert.Equal(t, "Behrampur", out.AreaName)

	claims, err := uc.Authenticate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", claims.EmployeeID)
	assert.NotEmpty(t, claims.ID)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, repo := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "EMP999", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{EmployeeID: "EMP001", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.True(t, repo.SetActive("EMP002", false))
	_, err = uc.Login(ctx, dto.LoginRequest{EmployeeID: "EMP002", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

// ──── Logout / revocación ──────────────────────────────────────────────────────

func TestLogout_RevocaElToken(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	out, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "EMP004", Password: "admin123"})
	require.NoError(t, err)
	claims, err := uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, claims))

	_, err = uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// Un login nuevo emite otro jti y sigue siendo válido.
	again, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "EMP004", Password: "admin123"})
	require.NoError(t, err)
	_, err = uc.Authenticate(ctx, again.Token)
	assert.NoError(t, err)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Authenticate(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──── Permisos y perfil ─────────────────────────────────────────────────────────

func TestPermissions_SegunRol(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	admin, err := uc.Permissions(ctx, "EMP004")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN"}, admin.Roles)
	assert.Len(t, admin.Permissions, len(entity.AllPermissions()))

	analyst, err := uc.Permissions(ctx, "EMP005")
	require.NoError(t, err)
	assert.Equal(t, []string{"AGENT"}, analyst.Roles)
	assert.NotContains(t, analyst.Permissions, string(entity.PermManageUsers))

	ok, err := uc.HasPermission(ctx, "EMP001", entity.PermExportReports)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = uc.HasPermission(ctx, "EMP005", entity.PermExportReports)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = uc.HasPermission(ctx, "EMP999", entity.PermViewReports)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfile_YRoles(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	p, err := uc.Profile(ctx, "EMP003")
	require.NoError(t, err)
	assert.Equal(t, "CIRCLE_LEAD", p.UserType)

	_, err = uc.Profile(ctx, "EMP999")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	roles, err := uc.Roles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "ADMIN", roles[0].Code)
	assert.Equal(t, "AGENT", roles[1].Code)
	assert.Equal(t, "LEAD", roles[2].Code)
}
