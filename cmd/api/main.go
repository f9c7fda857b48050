package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/config"
	appHTTP "github.com/opsdesk/payroll-backend-go/internal/handler/http"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/middleware"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/cron"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/repository/postgresql"
	bonusService "github.com/opsdesk/payroll-backend-go/internal/service/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/service/earnings"
	loanService "github.com/opsdesk/payroll-backend-go/internal/service/loan"
	payrollService "github.com/opsdesk/payroll-backend-go/internal/service/payroll"
	performanceService "github.com/opsdesk/payroll-backend-go/internal/service/performance"
	timesheetService "github.com/opsdesk/payroll-backend-go/internal/service/timesheet"
	"github.com/redis/go-redis/v9"
)

const (
	appName    = "payroll-backend"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With(slog.String("app", appName), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := db.Migrate(ctx); err != nil {
			slog.Error("Error running migrations", "error", err)
			os.Exit(1)
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	calculator := earnings.NewCalculator()

	timesheetSvc := timesheetService.NewTimesheetService(txManager, timesheetRepo, employeeRepo, calculator)
	bonusSvc := bonusService.NewBonusService(txManager, bonusRepo, employeeRepo, timesheetRepo, calculator, bonusService.Settings{
		BonusPerDay:  cfg.Payroll.BonusPerDay,
		WeeklyOffDay: cfg.Payroll.WeeklyOffDay,
	})
	loanSvc := loanService.NewLoanService(txManager, loanRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, timesheetRepo, loanRepo, deductionRepo, calculator, payrollService.Settings{
		WeeklyOffDay: cfg.Payroll.WeeklyOffDay,
		Workers:      cfg.Payroll.LeaderboardWorkers,
	})
	performanceSvc := performanceService.NewPerformanceService(employeeRepo, timesheetRepo, calculator,
		performanceService.NewScorer(cfg.Payroll.ExcludedRoleKeywords),
		performanceService.Settings{
			WeeklyOffDay: cfg.Payroll.WeeklyOffDay,
			Workers:      cfg.Payroll.LeaderboardWorkers,
		})

	idempotency := middleware.NewIdempotency(nil, cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, requests will not be deduplicated until it recovers", "addr", cfg.Redis.Addr, "error", err)
		}
		idempotency = middleware.NewIdempotency(rdb, cfg.Redis.IdempotencyTTL)
	}

	scheduler := cron.NewScheduler(ctx)
	cron.NewBonusJobs(employeeRepo, bonusSvc, cfg.Payroll.AccrualInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AppName:        appName,
		Version:        appVersion,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, idempotency, appHTTP.Handlers{
		Timesheet:   appHTTP.NewTimesheetHandler(timesheetSvc),
		Bonus:       appHTTP.NewBonusHandler(bonusSvc),
		Loan:        appHTTP.NewLoanHandler(loanSvc),
		Payroll:     appHTTP.NewPayrollHandler(payrollSvc),
		Performance: appHTTP.NewPerformanceHandler(performanceSvc),
		Report:      appHTTP.NewReportHandler(performanceSvc, payrollSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
