package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionPayrollApprove))
	assert.True(t, HasPermission(RoleAccountant, PermissionPayrollCreate))
	assert.True(t, HasPermission(RoleEmployee, PermissionPayslipViewOwn))
	assert.True(t, HasPermission(RoleAdmin, PermissionSettingsManage))

	assert.False(t, HasPermission(RoleAccountant, PermissionSettingsManage))

	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayslipViewOthers))
	assert.False(t, HasPermission(Role("intern"), PermissionPayslipViewOwn))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAccountant.Valid())
	assert.False(t, Role("").Valid())
}
