package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dashboard"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/metrics"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/ml"
	infrapdf "github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/credit-risk-dashboard/internal/interfaces/http"
	"github.com/jhoicas/credit-risk-dashboard/pkg/config"
	"github.com/jhoicas/credit-risk-dashboard/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("scoring_url", cfg.Scoring.BaseURL).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Str("path", cfg.DB.MigrationsPath).Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New("riskdash")

	customerRepo := postgres.NewCustomerRepository(pool)
	scoringClient := ml.NewScoringClient(cfg.Scoring.BaseURL, cfg.Scoring.HTTPTimeout, m)

	riskUC := usecase.NewRiskUseCase(customerRepo, scoringClient, usecase.RiskConfig{
		ListLimit:   cfg.Dashboard.ListLimit,
		CallTimeout: cfg.Scoring.CallTimeout,
	}, log)

	// PDF: reporte descargable del dashboard
	reportGenerator := infrapdf.NewMarotoReportGenerator()
	dashboardUC := dashboard.NewDashboardUseCase(riskUC, dashboard.NewViewBuilder(cfg.Dashboard.Currency), reportGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(httpRouter.RequestLogger(log, m))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Credit Risk Dashboard API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		RiskUC:      riskUC,
		DashboardUC: dashboardUC,
		ServiceName: cfg.App.Name,
		HealthCheck: func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) },
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

	log.Info().Msg("aplicación detenida")
}
