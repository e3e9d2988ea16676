package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/application/dto"
	"github.com/jhoicas/opshub/internal/application/reports"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC   *auth.AuthUseCase
	ExportUC *reports.ExportUseCase
	Metrics  *Metrics
	Logger   *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{Status: "ok"})
	})

	api := app.Group("/api")
	authRequired := AuthMiddleware(deps.AuthUC)
	need := func(perms ...entity.Permission) fiber.Handler {
		return RequirePermission(deps.AuthUC, log, perms...)
	}

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authRequired, authHandler.Logout)

	// Permisos
	permHandler := NewPermissionHandler(deps.AuthUC)
	api.Get("/permissions/me", authRequired, permHandler.Me)
	api.Get("/permissions/all", authRequired, need(entity.PermViewPermissions), permHandler.All)
	api.Get("/permissions/roles", authRequired, need(entity.PermViewRoles), permHandler.Roles)

	// Perfil
	profileHandler := NewProfileHandler(deps.AuthUC)
	api.Get("/profile/my-profile", authRequired, profileHandler.MyProfile)

	// Exportaciones (token también por query)
	if deps.ExportUC != nil {
		exportHandler := NewExportHandler(deps.ExportUC)
		api.Get("/reports/exports/:id/download", authRequired, need(entity.PermExportReports), exportHandler.Download)
	}
}
