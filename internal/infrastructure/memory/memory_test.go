package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opshub/internal/domain"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/infrastructure/memory"
)

func TestUserRepo_CrearYBuscar(t *testing.T) {
	repo := memory.NewUserRepository(nil)
	ctx := context.Background()
	u := &entity.User{EmployeeID: "EMP001", Username: "shivam", Active: true, Roles: []entity.Role{entity.RoleAgent}}

	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, u), domain.ErrEmployeeExists)

	got, err := repo.FindByEmployeeID(ctx, "EMP001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "shivam", got.Username)

	missing, err := repo.FindByEmployeeID(ctx, "EMP999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_PermisosUnionDeRolesSinDuplicados(t *testing.T) {
	repo := memory.NewUserRepository(map[entity.Role][]entity.Permission{
		"A": {entity.PermViewCustomers, entity.PermViewReports},
		"B": {entity.PermViewReports, entity.PermExportReports},
	})
	perms, err := repo.PermissionsFor(context.Background(), &entity.User{Roles: []entity.Role{"A", "B", "UNKNOWN"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.Permission{entity.PermViewCustomers, entity.PermViewReports, entity.PermExportReports}, perms)
}

func TestUserRepo_SetActive(t *testing.T) {
	repo := memory.NewUserRepository(nil)
	require.NoError(t, repo.Create(context.Background(), &entity.User{EmployeeID: "EMP001", Active: true}))

	assert.True(t, repo.SetActive("EMP001", false))
	assert.False(t, repo.SetActive("EMP404", false))
	got, _ := repo.FindByEmployeeID(context.Background(), "EMP001")
	assert.False(t, got.Active)
}

func TestRevocationList_RevocaHastaExpirar(t *testing.T) {
	list := memory.NewRevocationList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, list.Revoke(ctx, "jti-old", time.Now().Add(-time.Second)))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = list.IsRevoked(ctx, "jti-old")
	assert.False(t, revoked, "una revocación vencida ya no aplica")

	revoked, _ = list.IsRevoked(ctx, "jti-otro")
	assert.False(t, revoked)
}
