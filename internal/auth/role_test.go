package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopcore/internal/model"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name    string
		role    model.Role
		op      Operation
		allowed bool
	}{
		{"admin can write categories", model.RoleAdmin, OpCategoryWrite, true},
		{"seller cannot write categories", model.RoleSeller, OpCategoryWrite, false},
		{"customer cannot write categories", model.RoleCustomer, OpCategoryWrite, false},
		{"seller can write products", model.RoleSeller, OpProductWrite, true},
		{"admin can write products", model.RoleAdmin, OpProductWrite, true},
		{"customer cannot write products", model.RoleCustomer, OpProductWrite, false},
		{"customer can edit own profile", model.RoleCustomer, OpProfileWrite, true},
		{"seller can edit own profile", model.RoleSeller, OpProfileWrite, true},
		{"unknown role denied", model.Role("superuser"), OpProductWrite, false},
		{"empty role denied", model.Role(""), OpCategoryWrite, false},
		{"unknown operation denied", model.RoleAdmin, Operation("inventory:write"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, Can(tt.role, tt.op))
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, model.RoleCustomer.Valid())
	assert.True(t, model.RoleSeller.Valid())
	assert.True(t, model.RoleAdmin.Valid())
	assert.False(t, model.Role("root").Valid())
	assert.False(t, model.Role("").Valid())
}
