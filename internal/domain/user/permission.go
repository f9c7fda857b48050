package user

type Permission string

const (
	// Timesheets
	PermissionTimesheetViewOwn Permission = "timesheet.view_own"
	PermissionTimesheetViewAll Permission = "timesheet.view_all"
	PermissionTimesheetEdit    Permission = "timesheet.edit"

	// Ledgers
	PermissionBonusView       Permission = "bonus.view"
	PermissionBonusWithdraw   Permission = "bonus.withdraw"
	PermissionBonusAccrue     Permission = "bonus.accrue"
	PermissionLoanView        Permission = "loan.view"
	PermissionLoanManage      Permission = "loan.manage"
	PermissionDeductionView   Permission = "deduction.view"
	PermissionDeductionManage Permission = "deduction.manage"

	// Reports
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollViewAll  Permission = "payroll.view_all"
	PermissionPerformanceView Permission = "performance.view"
	PermissionLeaderboardView Permission = "performance.leaderboard"
	PermissionReportsExport   Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionTimesheetViewOwn,
		PermissionTimesheetViewAll,
		PermissionTimesheetEdit,
		PermissionBonusView,
		PermissionBonusWithdraw,
		PermissionBonusAccrue,
		PermissionLoanView,
		PermissionLoanManage,
		PermissionDeductionView,
		PermissionDeductionManage,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPerformanceView,
		PermissionLeaderboardView,
		PermissionReportsExport,
	},
	RoleManager: {
		PermissionTimesheetViewOwn,
		PermissionTimesheetViewAll,
		PermissionTimesheetEdit,
		PermissionBonusView,
		PermissionBonusWithdraw,
		PermissionBonusAccrue,
		PermissionLoanView,
		PermissionLoanManage,
		PermissionDeductionView,
		PermissionDeductionManage,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPerformanceView,
		PermissionLeaderboardView,
		PermissionReportsExport,
	},
	RoleEmployee: {
		// Employees read their own records and the leaderboard
		PermissionTimesheetViewOwn,
		PermissionBonusView,
		PermissionLoanView,
		PermissionDeductionView,
		PermissionPayrollViewOwn,
		PermissionPerformanceView,
		PermissionLeaderboardView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
