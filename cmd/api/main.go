package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/opshub/internal/application/auth"
	"github.com/jhoicas/opshub/internal/application/reports"
	"github.com/jhoicas/opshub/internal/domain/entity"
	"github.com/jhoicas/opshub/internal/domain/repository"
	"github.com/jhoicas/opshub/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/opshub/internal/infrastructure/pdf"
	"github.com/jhoicas/opshub/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/opshub/internal/interfaces/http"
	"github.com/jhoicas/opshub/pkg/config"
	"github.com/jhoicas/opshub/pkg/logger"
)

const devJWTSecret = "ops-hub-development-secret"

// docs/swagger.json se regenera desde las anotaciones de los handlers.
//go:generate swag init --dir ../.. --generalInfo cmd/api/main.go --output ../../docs --outputTypes json --parseInternal

// @title                       Ops Hub API
// @version                     1.0
// @description                 Backend de referencia: autenticación, permisos, perfil y exportaciones.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando backend de referencia")

	if cfg.JWT.Secret == "" {
		if cfg.App.Env != "development" {
			log.Fatal().Msg("JWT_SECRET es obligatorio fuera de development")
		}
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx := context.Background()

	var (
		userRepo repository.UserRepository
		revoked  repository.TokenRevocationList
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		pgUsers := postgres.NewUserRepository(pool)
		if err := pgUsers.SeedRBAC(ctx, entity.DefaultRolePermissions()); err != nil {
			log.Fatal().Err(err).Msg("sembrar roles y permisos")
		}
		userRepo = pgUsers
		revoked = postgres.NewRevocationRepository(pool)
	} else {
		log.Warn().Msg("sin DATABASE_URL ni DB_HOST: usuarios en memoria")
		userRepo = memory.NewUserRepository(nil)
		revoked = memory.NewRevocationList()
	}

	authUC := auth.NewAuthUseCase(userRepo, revoked, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	created, err := authUC.SeedUsers(ctx, auth.DefaultUsers())
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar usuarios")
	}
	log.Info().Int("created", created).Msg("usuarios por defecto verificados")

	// PDF: documento de las exportaciones de reportes
	exportUC := reports.NewExportUseCase(authUC, infrapdf.NewExportPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Ops Hub API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:   authUC,
		ExportUC: exportUC,
		Metrics:  httpRouter.NewMetrics(),
		Logger:   log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("backend detenido")
}
