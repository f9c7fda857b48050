package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/middleware"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Timesheet   TimesheetHandler
	Bonus       BonusHandler
	Loan        LoanHandler
	Payroll     PayrollHandler
	Performance PerformanceHandler
	Report      ReportHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, idempotency *middleware.Idempotency, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition", middleware.IdempotentReplayHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
		r.Use(middleware.RequireCompany)

		r.Route("/employees/{employeeId}", func(r chi.Router) {
			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", h.Timesheet.List)
				r.Get("/{date}", h.Timesheet.Get)
				r.Get("/{date}/earnings", h.Timesheet.DailyEarnings)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimesheetEdit))
					r.Put("/", h.Timesheet.Save)
					r.Post("/open-period", h.Timesheet.OpenPeriod)
				})
			})

			r.Route("/bonus", func(r chi.Router) {
				r.Get("/balance", h.Bonus.GetBalance)
				r.Get("/withdrawals", h.Bonus.ListWithdrawals)
				r.Get("/accruals", h.Bonus.ListAccruals)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Use(idempotency.Handler)
					r.With(middleware.RequirePermission(user.PermissionBonusWithdraw)).Post("/withdrawals", h.Bonus.Withdraw)
					r.With(middleware.RequirePermission(user.PermissionBonusAccrue)).Post("/accruals", h.Bonus.ManualAccrue)
				})
			})

			r.Route("/loans", func(r chi.Router) {
				r.Get("/", h.Loan.List)
				r.Get("/active", h.Loan.GetActive)
				r.With(middleware.RequireManager, idempotency.Handler).Post("/", h.Loan.IssueOrUpdate)
			})

			r.Route("/deductions", func(r chi.Router) {
				r.Get("/", h.Payroll.ListDeductions)
				r.With(middleware.RequirePermission(user.PermissionDeductionManage), idempotency.Handler).Post("/", h.Payroll.CreateDeduction)
			})

			r.Get("/payroll/summary", h.Payroll.GetSummary)
			r.Get("/performance/score", h.Performance.GetScore)
		})

		r.With(middleware.RequirePermission(user.PermissionBonusAccrue)).Post("/bonus/accruals/run", h.Bonus.RunAccrual)
		r.With(middleware.RequirePermission(user.PermissionLoanManage)).Post("/loans/{id}/close", h.Loan.Close)

		r.Route("/payroll/summaries", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
			r.Get("/", h.Payroll.ListSummaries)
			r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/export", h.Report.ExportPayrollSummaries)
		})

		r.Route("/performance/leaderboard", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionLeaderboardView))
			r.Get("/", h.Performance.GetLeaderboard)
			r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/export", h.Report.ExportLeaderboard)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"route not found"}}`))
	})
	return r
}
