package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
)

type LoanServiceImpl struct {
	txManager    database.TxManager
	loanRepo     loan.LoanRepository
	employeeRepo employee.EmployeeRepository
}

func NewLoanService(
	txManager database.TxManager,
	loanRepo loan.LoanRepository,
	employeeRepo employee.EmployeeRepository,
) loan.LoanService {
	return &LoanServiceImpl{
		txManager:    txManager,
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *LoanServiceImpl) GetActiveLoan(ctx context.Context, employeeID string) (*loan.LoanResponse, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	active, err := s.loanRepo.GetActiveByEmployee(ctx, actor.CompanyID, employeeID)
	if errors.Is(err, loan.ErrNoActiveLoan) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	resp := loan.NewLoanResponse(active)
	return &resp, nil
}

// IssueOrUpdate creates a loan when the employee has none active and
// otherwise edits the active one. The check and the write happen under the
// employee row lock, so two concurrent requests cannot both insert.
func (s *LoanServiceImpl) IssueOrUpdate(ctx context.Context, req loan.IssueOrUpdateRequest) (loan.IssueOrUpdateResponse, error) {
	if !req.Amount.IsPositive() {
		return loan.IssueOrUpdateResponse{}, loan.ErrInvalidAmount
	}
	if err := req.Validate(); err != nil {
		return loan.IssueOrUpdateResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return loan.IssueOrUpdateResponse{}, err
	}

	issuedOn, _ := validator.IsValidDate(req.Date)

	var resp loan.IssueOrUpdateResponse
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.LockForUpdate(ctx, req.EmployeeID, actor.CompanyID)
		if err != nil {
			return err
		}
		if err := emp.CheckActive(); err != nil {
			return err
		}

		active, err := s.loanRepo.GetActiveByEmployee(ctx, actor.CompanyID, req.EmployeeID)
		switch {
		case err == nil:
			active.Amount = req.Amount
			active.InstallmentAmount = req.InstallmentAmount
			active.IssuedOn = issuedOn
			updated, err := s.loanRepo.UpdateActive(ctx, active)
			if err != nil {
				return err
			}
			resp = loan.IssueOrUpdateResponse{Loan: loan.NewLoanResponse(updated)}
			return nil

		case errors.Is(err, loan.ErrNoActiveLoan):
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			created, err := s.loanRepo.Create(ctx, loan.Loan{
				ID:                id.String(),
				CompanyID:         actor.CompanyID,
				EmployeeID:        req.EmployeeID,
				Amount:            req.Amount,
				InstallmentAmount: req.InstallmentAmount,
				IssuedOn:          issuedOn,
				Status:            loan.StatusActive,
			})
			if err != nil {
				return err
			}
			resp = loan.IssueOrUpdateResponse{Loan: loan.NewLoanResponse(created), Created: true}
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return loan.IssueOrUpdateResponse{}, fmt.Errorf("failed to issue loan: %w", err)
	}

	slog.Info("Loan saved",
		"company_id", actor.CompanyID,
		"employee_id", req.EmployeeID,
		"loan_id", resp.Loan.ID,
		"created", resp.Created,
		"amount", req.Amount.String(),
	)
	return resp, nil
}

func (s *LoanServiceImpl) Close(ctx context.Context, loanID string) (loan.LoanResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	var closed loan.Loan
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.loanRepo.GetByID(ctx, loanID, actor.CompanyID)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return loan.ErrLoanAlreadyClosed
		}
		if _, err := s.employeeRepo.LockForUpdate(ctx, current.EmployeeID, actor.CompanyID); err != nil {
			return err
		}
		closed, err = s.loanRepo.Close(ctx, loanID, actor.CompanyID)
		return err
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}

	slog.Info("Loan closed", "company_id", actor.CompanyID, "loan_id", loanID, "employee_id", closed.EmployeeID)
	return loan.NewLoanResponse(closed), nil
}

func (s *LoanServiceImpl) ListLoans(ctx context.Context, employeeID string) ([]loan.LoanResponse, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListByEmployee(ctx, actor.CompanyID, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]loan.LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, loan.NewLoanResponse(l))
	}
	return resp, nil
}

func readerFor(ctx context.Context, employeeID string) (user.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.CanViewEmployee(employeeID) {
		return user.Actor{}, user.ErrInsufficientPermissions
	}
	return actor, nil
}
