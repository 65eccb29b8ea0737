package user

type Role string

const (
	RoleAdmin      Role = "admin"      // Full access, including approvals
	RoleAccountant Role = "accountant" // Prepares and approves payroll
	RoleEmployee   Role = "employee"   // Own payslips and ledger only
)

func (r Role) Valid() bool {
	_, ok := RolePermissions[r]
	return ok
}
