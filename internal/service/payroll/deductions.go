package payroll

import (
	"fmt"

	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// AggregateDeductions nets the period's deductions against summary.GrossPay.
//
// Every loan of the employee, active or closed, contributes the repayments
// its schedule puts inside the period. Advance and manual deductions count only when their
// own bounds lie inside the period. Net pay is floored at zero; a floored
// summary has OverDeducted set and the absorbed amount in Shortfall.
func AggregateDeductions(summary *payroll.PeriodSummary, loans []loan.Loan, deductions []payroll.Deduction) {
	summary.LoanDeduction = decimal.Zero
	summary.AdvanceDeduction = decimal.Zero
	summary.ManualDeduction = decimal.Zero
	summary.Shortfall = decimal.Zero
	summary.OverDeducted = false

	for _, l := range loans {
		if l.EmployeeID != summary.EmployeeID {
			continue
		}
		summary.LoanDeduction = summary.LoanDeduction.Add(l.DueBetween(summary.PeriodStart, summary.PeriodEnd))
	}

	for _, d := range deductions {
		if d.EmployeeID != summary.EmployeeID || !d.Within(summary.PeriodStart, summary.PeriodEnd) {
			continue
		}
		switch d.Kind {
		case payroll.DeductionKindAdvance:
			summary.AdvanceDeduction = summary.AdvanceDeduction.Add(d.Amount)
		case payroll.DeductionKindManual:
			summary.ManualDeduction = summary.ManualDeduction.Add(d.Amount)
		}
	}

	summary.TotalDeductions = summary.LoanDeduction.Add(summary.AdvanceDeduction).Add(summary.ManualDeduction)
	net := summary.GrossPay.Sub(summary.TotalDeductions)
	if net.IsNegative() {
		summary.OverDeducted = true
		summary.Shortfall = net.Neg()
		summary.NetPay = decimal.Zero
		summary.Warnings = append(summary.Warnings, fmt.Sprintf(
			"deductions %s exceed gross pay %s by %s; net pay floored at 0",
			summary.TotalDeductions.StringFixed(2),
			summary.GrossPay.StringFixed(2),
			summary.Shortfall.StringFixed(2),
		))
		return
	}
	summary.NetPay = net
}
