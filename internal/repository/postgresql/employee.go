package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, employee_code, full_name, role, employment_status, pay_basis,
	to_char(shift_start, 'HH24:MI'), to_char(shift_end, 'HH24:MI'), break_minutes,
	per_shift_amount, hourly_rate, monthly_salary, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Role,
		&emp.EmploymentStatus, &emp.PayBasis, &emp.ShiftStart, &emp.ShiftEnd, &emp.BreakMinutes,
		&emp.PerShiftAmount, &emp.HourlyRate, &emp.MonthlySalary, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2
	`

	found, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return found, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status = $2
		ORDER BY full_name, id
	`

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// ListCompanyIDsWithActiveEmployees implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListCompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT company_id
		FROM employees
		WHERE employment_status = $1
		ORDER BY company_id
	`, employee.EmploymentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LockForUpdate implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) LockForUpdate(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2
		FOR UPDATE
	`

	locked, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to lock employee %s: %w", id, err)
	}
	return locked, nil
}
