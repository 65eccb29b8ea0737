package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database/migrations"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/paycheck-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/paycheck-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/paycheck-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/service/master"
	payrollService "github.com/cmlabs-hris/paycheck-backend-go/internal/service/payroll"
	settingsService "github.com/cmlabs-hris/paycheck-backend-go/internal/service/settings"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSize{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	// The payroll_date unique index guards the one-payroll-per-month rule;
	// refuse to serve without it.
	sqlDB := db.SQLDB()
	if err := migrations.VerifySchema(ctx, sqlDB); err != nil {
		log.Fatal("verify schema, run cmd/migrate first", zap.Error(err))
	}
	sqlDB.Close()

	departmentStore := postgresql.NewDepartmentStore(db)
	designationStore := postgresql.NewDesignationStore(db)
	salaryHeadStore := postgresql.NewSalaryHeadStore(db)
	employeeStore := postgresql.NewEmployeeStore(db)
	salaryHistoryStore := postgresql.NewSalaryHistoryStore(db)
	payrollStore := postgresql.NewPayrollStore(db)
	payrollDetailStore := postgresql.NewPayrollDetailStore(db)
	settingsStore := postgresql.NewSettingsStore(db)
	transactor := postgresql.NewTransactor(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("initialize local storage", zap.Error(err))
	}
	defer fileStorage.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authz := serviceAuth.NewClaimsAuth()

	masterSvc := master.NewMasterService(departmentStore, designationStore, authz, log)
	salaryHeadSvc := master.NewSalaryHeadService(salaryHeadStore, authz, log)
	employeeSvc := employeeService.NewEmployeeService(employeeStore, salaryHistoryStore, transactor, authz, log)
	payrollSvc := payrollService.NewPayrollService(
		payrollService.Stores{
			Payrolls:  payrollStore,
			Details:   payrollDetailStore,
			Employees: employeeStore,
			Tx:        transactor,
		},
		salaryHeadSvc,
		authz,
		authz,
		fileStorage,
		log,
	)
	dashboardSvc := dashboardService.NewDashboardService(employeeStore, payrollStore, authz)
	settingsSvc := settingsService.NewSettingsService(settingsStore, authz, log)

	paging := appHTTP.Paging{
		DefaultPerPage: cfg.Payroll.DefaultPageSize,
		MaxPerPage:     cfg.Payroll.MaxPageSize,
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			FilesDir:       fileStorage.Dir(),
		},
		JWTService,
		appHTTP.Handlers{
			Auth:      appHTTP.NewAuthHandler(JWTService),
			Payroll:   appHTTP.NewPayrollHandler(payrollSvc, paging),
			Employee:  appHTTP.NewEmployeeHandler(employeeSvc, paging),
			Master:    appHTTP.NewMasterHandler(masterSvc, salaryHeadSvc, paging),
			Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
			Settings:  appHTTP.NewSettingsHandler(settingsSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", server.Addr), zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
