package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from config.Config.
type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
	FilesDir       string // served under /files; empty disables it
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      AuthHandler
	Payroll   PayrollHandler
	Employee  EmployeeHandler
	Master    MasterHandler
	Dashboard DashboardHandler
	Settings  SettingsHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paycheck"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(metrics.InstrumentHandler)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", metrics.Handler())
	if cfg.FilesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.FilesDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentEncoding("application/json"))

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/payrolls", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollViewList)).Get("/", h.Payroll.List)
				r.With(middleware.RequirePermission(user.PermissionPayrollCreate)).Post("/generate", h.Payroll.Generate)
				r.With(middleware.RequirePermission(user.PermissionPayrollCreate)).Post("/", h.Payroll.Save)
				r.With(middleware.RequirePermission(user.PermissionPayrollRegister)).Get("/report", h.Payroll.Report)
				r.With(middleware.RequirePermission(user.PermissionPayrollLedger)).Get("/ledger", h.Payroll.Ledger)
				r.With(middleware.RequirePermission(user.PermissionPayslipViewOwn)).Get("/payslips", h.Payroll.Payslips)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollViewDetails)).Get("/", h.Payroll.Get)
					r.With(middleware.RequirePermission(user.PermissionPayrollEdit)).Put("/", h.Payroll.UpdateSheet)
					r.With(middleware.RequirePermission(user.PermissionPayrollViewDetails)).Post("/export", h.Payroll.Export)
					// the service checks the permission matching the target status
					r.Patch("/status", h.Payroll.UpdateStatus)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewList)).Get("/", h.Employee.List)
				r.With(middleware.RequirePermission(user.PermissionEmployeeCreate)).Post("/", h.Employee.Create)

				r.Route("/{employeeID}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionEmployeeViewDetails)).Get("/", h.Employee.Get)
					r.With(middleware.RequirePermission(user.PermissionEmployeeViewDetails)).Get("/salaries", h.Employee.SalaryHistory)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionEmployeeEdit))
						r.Put("/", h.Employee.Update)
						r.Patch("/status", h.Employee.ChangeStatus)
						r.Post("/resign", h.Employee.Resign)
					})
					r.With(middleware.RequirePermission(user.PermissionSalaryIncrement)).Post("/salaries", h.Employee.ChangeSalary)
				})
			})

			mountMaster(r, "/departments", master.KindDepartment, h.Master, user.PermissionDepartmentView, user.PermissionDepartmentManage)
			mountMaster(r, "/designations", master.KindDesignation, h.Master, user.PermissionDesignationView, user.PermissionDesignationManage)

			r.Route("/salary-heads", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryHeadView))
					r.Get("/", h.Master.ListSalaryHeads)
					r.Get("/classification", h.Master.Classification)
					r.Get("/{id}", h.Master.GetSalaryHead)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryHeadManage))
					r.Post("/", h.Master.CreateSalaryHead)
					r.Put("/{id}", h.Master.UpdateSalaryHead)
					r.Delete("/{id}", h.Master.DeleteSalaryHead)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
				r.Get("/", h.Settings.Get)
				r.Put("/", h.Settings.Update)
			})
		})
	})
	return r
}

func mountMaster(r chi.Router, path string, kind master.Kind, h MasterHandler, view, manage user.Permission) {
	r.Route(path, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(view))
			r.Get("/", h.List(kind))
			r.Get("/{id}", h.Get(kind))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(manage))
			r.Post("/", h.Create(kind))
			r.Put("/{id}", h.Update(kind))
			r.Delete("/{id}", h.Delete(kind))
		})
	})
}
