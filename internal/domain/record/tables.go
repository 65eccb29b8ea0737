package record

type Table string

const (
	TableDepartments    Table = "departments"
	TableDesignations   Table = "designations"
	TableSalaryHeads    Table = "salary_heads"
	TableEmployees      Table = "employees"
	TableSalaryHistory  Table = "employee_salary_history"
	TablePayroll        Table = "payroll"
	TablePayrollDetails Table = "payroll_details"
	TableSettings       Table = "general_settings"
)
