package user

import "slices"

type Permission string

const (
	// Employee Management
	PermissionEmployeeViewList    Permission = "employee.view_list"
	PermissionEmployeeCreate      Permission = "employee.create"
	PermissionEmployeeEdit        Permission = "employee.edit"
	PermissionEmployeeViewDetails Permission = "employee.view_details"
	PermissionSalaryIncrement     Permission = "employee.salary_increment"

	// Payroll
	PermissionPayrollCreate      Permission = "payroll.create"
	PermissionPayrollEdit        Permission = "payroll.edit"
	PermissionPayrollApprove     Permission = "payroll.approve"
	PermissionPayrollReject      Permission = "payroll.reject"
	PermissionPayrollCancel      Permission = "payroll.cancel"
	PermissionPayrollViewList    Permission = "payroll.view_list"
	PermissionPayrollViewDetails Permission = "payroll.view_details"

	// Payslips
	PermissionPayslipViewOwn    Permission = "payslip.view_own"
	PermissionPayslipViewOthers Permission = "payslip.view_others"

	// Master data
	PermissionDepartmentView    Permission = "department.view"
	PermissionDepartmentManage  Permission = "department.manage"
	PermissionDesignationView   Permission = "designation.view"
	PermissionDesignationManage Permission = "designation.manage"
	PermissionSalaryHeadView    Permission = "salary_head.view"
	PermissionSalaryHeadManage  Permission = "salary_head.manage"

	// Reports
	PermissionPayrollRegister Permission = "reports.payroll_register"
	PermissionPayrollLedger   Permission = "reports.payroll_ledger"

	// Settings
	PermissionSettingsManage Permission = "settings.manage"
)

var backOfficePermissions = []Permission{
	PermissionEmployeeViewList,
	PermissionEmployeeCreate,
	PermissionEmployeeEdit,
	PermissionEmployeeViewDetails,
	PermissionSalaryIncrement,
	PermissionPayrollCreate,
	PermissionPayrollEdit,
	PermissionPayrollApprove,
	PermissionPayrollReject,
	PermissionPayrollCancel,
	PermissionPayrollViewList,
	PermissionPayrollViewDetails,
	PermissionPayslipViewOwn,
	PermissionPayslipViewOthers,
	PermissionDepartmentView,
	PermissionDepartmentManage,
	PermissionDesignationView,
	PermissionDesignationManage,
	PermissionSalaryHeadView,
	PermissionSalaryHeadManage,
	PermissionPayrollRegister,
	PermissionPayrollLedger,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin:      append(slices.Clone(backOfficePermissions), PermissionSettingsManage),
	RoleAccountant: backOfficePermissions,
	RoleEmployee: {
		PermissionEmployeeViewDetails,
		PermissionPayrollLedger,
		PermissionPayslipViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
