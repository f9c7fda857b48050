package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Runs payroll and approves ledger changes
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleManager || r == RoleEmployee
}

// IsManager checks if role is manager or owner
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}

// Actor is the authenticated caller as carried in the access token.
type Actor struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       Role
}

// CanViewEmployee reports whether the actor may read another employee's
// payroll data. Employees only see their own.
func (a Actor) CanViewEmployee(employeeID string) bool {
	return a.Role.IsManager() || (a.EmployeeID != "" && a.EmployeeID == employeeID)
}
