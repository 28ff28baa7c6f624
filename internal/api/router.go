package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edocportal/portal-api/internal/api/handler"
	"github.com/edocportal/portal-api/internal/api/middleware"
	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/service"
	"github.com/edocportal/portal-api/internal/infrastructure/config"
	"github.com/edocportal/portal-api/internal/infrastructure/db/postgres"
	redisinfra "github.com/edocportal/portal-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.MaxUploadSize)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit(cfg.MaxUploadSize))
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	accountRepo := postgres.NewAccountRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	revocation := redisinfra.NewRevocationStore(rdb)

	accountService := service.NewAccountService(accountRepo, revocation, cfg.JWTSecret, cfg.TokenTTL, log)
	applicationService := service.NewApplicationService(applicationRepo, accountRepo, log)

	authHandler := handler.NewAuthHandler(accountService)
	adminHandler := handler.NewAdminHandler(accountService)
	cscHandler := handler.NewCscHandler(accountService, applicationService)
	customerHandler := handler.NewCustomerHandler(applicationService)

	auth := middleware.Auth(cfg.JWTSecret, revocation)

	// --- Public surface ---
	e.POST("/auth/login/:portal", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, auth)
	e.POST("/register", authHandler.RegisterCustomer)
	e.POST("/csc/register", authHandler.RegisterCsc)
	e.GET("/csc-centers", authHandler.CscCenters)
	e.GET("/services", authHandler.Services)
	e.GET("/services/:type/required-documents", authHandler.RequiredDocuments)

	// Health probes and metrics, no auth required.
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Admin portal ---
	admin := e.Group("/v1/admin", auth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/csc-users", adminHandler.ListCsc)
	admin.POST("/csc-users", adminHandler.CreateCsc)
	admin.GET("/csc-users/:id", adminHandler.GetCsc)
	admin.PUT("/csc-users/:id", adminHandler.UpdateCsc)
	admin.POST("/csc-users/:id/approve", adminHandler.ApproveCsc)
	admin.DELETE("/csc-users/:id", adminHandler.DeleteCsc)

	// --- CSC operator portal ---
	csc := e.Group("/v1/csc", auth, middleware.RBAC(domain.RoleCsc))
	csc.GET("/customers", cscHandler.Customers)
	csc.POST("/customers", cscHandler.CreateCustomer)
	csc.POST("/customers/:id/approve", cscHandler.ApproveCustomer)
	csc.POST("/customers/:id/deactivate", cscHandler.DeactivateCustomer)
	csc.DELETE("/customers/:id", cscHandler.RemoveCustomer)
	csc.GET("/applications", cscHandler.Applications)
	csc.GET("/applications/:id", cscHandler.Application)
	csc.POST("/applications/:id/status", cscHandler.UpdateApplicationStatus)
	csc.GET("/applications/:id/issued-document", cscHandler.IssuedDocument)
	csc.GET("/application-documents/:docId/download", cscHandler.DownloadDocument)
	csc.GET("/application-documents/:docId/view", cscHandler.ViewDocument)

	// --- Customer portal ---
	customer := e.Group("/v1/customer", auth, middleware.RBAC(domain.RoleCustomer))
	customer.GET("/applications", customerHandler.Applications)
	customer.POST("/applications", customerHandler.Apply)
	customer.GET("/applications/:id/issued-document", customerHandler.IssuedDocument)

	return e
}
