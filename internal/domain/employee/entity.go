package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the pay configuration subset of an employee record. It is owned
// by the employee management service and read-only here.
type Employee struct {
	ID               string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	Role             string
	EmploymentStatus EmploymentStatus
	PayBasis         PayBasis
	ShiftStart       *string // "HH:MM"
	ShiftEnd         *string // "HH:MM", may be earlier than ShiftStart for overnight shifts
	BreakMinutes     int
	PerShiftAmount   *decimal.Decimal
	HourlyRate       *decimal.Decimal
	MonthlySalary    *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PayBasis string

const (
	PayBasisPerShift      PayBasis = "per_shift"
	PayBasisHourly        PayBasis = "hourly"
	PayBasisMonthlySalary PayBasis = "monthly_salary"
)

func (p PayBasis) IsValid() bool {
	switch p {
	case PayBasisPerShift, PayBasisHourly, PayBasisMonthlySalary:
		return true
	}
	return false
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// CheckActive returns ErrEmployeeInactive for resigned or terminated
// employees. New ledger entries are refused for them.
func (e Employee) CheckActive() error {
	if !e.IsActive() {
		return ErrEmployeeInactive
	}
	return nil
}
