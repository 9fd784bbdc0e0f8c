package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdministrator))
	assert.True(t, IsValidRole(RoleOwner))
	assert.True(t, IsValidRole(RoleManager))
	assert.False(t, IsValidRole(Role("superuser")))
}

func TestHasPermission(t *testing.T) {
	admin := User{Role: RoleAdministrator}
	owner := User{Role: RoleOwner}
	manager := User{Role: RoleManager}

	assert.True(t, admin.HasPermission("manage_users"))
	assert.True(t, admin.HasPermission("view_analytics"))

	assert.False(t, owner.HasPermission("manage_users"))
	assert.True(t, owner.HasPermission("view_analytics"))
	assert.True(t, owner.HasPermission("manage_orders"))

	assert.False(t, manager.HasPermission("manage_users"))
	assert.False(t, manager.HasPermission("view_analytics"))
	assert.True(t, manager.HasPermission("manage_orders"))

	unknown := User{Role: Role("intern")}
	assert.False(t, unknown.HasPermission("manage_orders"))
}
