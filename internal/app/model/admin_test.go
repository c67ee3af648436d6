package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmin_AllRolesAddsImplicitUser(t *testing.T) {
	a := &Admin{Roles: []string{RoleAdmin}}

	assert.ElementsMatch(t, []string{RoleAdmin, RoleUser}, a.AllRoles())
	assert.Equal(t, []string{RoleAdmin}, a.Roles, "stored roles must not change")
	assert.True(t, a.HasRole(RoleAdmin))
	assert.True(t, (&Admin{}).HasRole(RoleUser))
	assert.False(t, (&Admin{}).HasRole(RoleAdmin))
}
