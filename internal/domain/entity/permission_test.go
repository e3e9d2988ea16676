package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/opshub/internal/domain/entity"
)

func TestPermissionSet_ValorCeroNiegaTodo(t *testing.T) {
	var ps entity.PermissionSet

	assert.True(t, ps.Empty())
	for _, p := range entity.AllPermissions() {
		assert.False(t, ps.Has(p), "conjunto vacío no concede %s", p)
	}
	assert.False(t, ps.Has("ANY"))
	assert.False(t, ps.HasRole(entity.RoleAdmin))
	assert.Empty(t, ps.Permissions())
	assert.Empty(t, ps.Roles())
}

func TestPermissionSet_NormalizaCodigosDelCable(t *testing.T) {
	ps := entity.NewPermissionSet(
		[]string{" VIEW_REPORTS ", "VIEW_REPORTS", "", "CUSTOM_FLAG"},
		nil,
	)

	assert.Equal(t, []entity.Permission{"CUSTOM_FLAG", entity.PermViewReports}, ps.Permissions())
	assert.Empty(t, ps.Roles(), "roles ausentes se normalizan a vacío")
	assert.True(t, ps.Has("CUSTOM_FLAG"), "los códigos desconocidos se conservan")
	assert.False(t, entity.Permission("CUSTOM_FLAG").Known())
	assert.True(t, entity.PermViewReports.Known())
}

func TestPermissionSet_Predicados(t *testing.T) {
	ps := entity.NewPermissionSet(
		[]string{"VIEW_CUSTOMERS", "VIEW_REPORTS"},
		[]string{"LEAD"},
	)

	assert.True(t, ps.Has(entity.PermViewCustomers))
	assert.False(t, ps.Has(entity.PermManageUsers))

	assert.True(t, ps.HasAny(entity.PermManageUsers, entity.PermViewReports))
	assert.False(t, ps.HasAny(entity.PermManageUsers, entity.PermManageSettings))

	assert.True(t, ps.HasAll(entity.PermViewCustomers, entity.PermViewReports))
	assert.False(t, ps.HasAll(entity.PermViewCustomers, entity.PermManageUsers))

	assert.True(t, ps.HasRole(entity.RoleLead))
	assert.True(t, ps.HasAnyRole(entity.RoleAdmin, entity.RoleLead))
	assert.False(t, ps.HasAllRoles(entity.RoleAdmin, entity.RoleLead))
}

// Sin códigos de entrada: any es falso y all es verdad vacía.
func TestPermissionSet_ListaVacia(t *testing.T) {
	ps := entity.NewPermissionSet([]string{"VIEW_CUSTOMERS"}, []string{"ADMIN"})

	assert.False(t, ps.HasAny())
	assert.True(t, ps.HasAll())
	assert.False(t, ps.HasAnyRole())
	assert.True(t, ps.HasAllRoles())

	var empty entity.PermissionSet
	assert.False(t, empty.HasAny())
	assert.True(t, empty.HasAll())
}

func TestDefaultRolePermissions(t *testing.T) {
	m := entity.DefaultRolePermissions()

	assert.Len(t, m[entity.RoleAdmin], len(entity.AllPermissions()))
	assert.NotContains(t, m[entity.RoleLead], entity.PermManageUsers)
	assert.Contains(t, m[entity.RoleLead], entity.PermExportReports)
	assert.NotContains(t, m[entity.RoleAgent], entity.PermExportReports)
}
