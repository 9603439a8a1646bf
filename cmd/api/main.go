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

	"github.com/jhoicas/smart-billing/docs"
	"github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/internal/infrastructure/memory"
	"github.com/jhoicas/smart-billing/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/smart-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/smart-billing/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/smart-billing/internal/interfaces/http"
	"github.com/jhoicas/smart-billing/pkg/config"
	"github.com/jhoicas/smart-billing/pkg/logger"
	"github.com/jhoicas/smart-billing/pkg/money"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("currency", cfg.Billing.Currency).
		Msg("iniciando aplicación")

	formatter, err := money.New(cfg.Billing.Currency, cfg.Billing.Locale)
	if err != nil {
		log.Fatal().Err(err).Msg("formateador de moneda")
	}

	draftRepo := memory.NewDraftRepository()
	prom := metrics.NewPrometheus("billing")

	draftUC := billing.NewDraftUseCase(draftRepo, formatter, prom, log, cfg.Billing.NumberPrefix)
	exportUC := billing.NewExportUseCase(
		draftRepo,
		formatter,
		billing.CompanyInfo{
			Name:  cfg.Billing.CompanyName,
			Email: cfg.Billing.CompanyEmail,
			Phone: cfg.Billing.CompanyPhone,
		},
		infrapdf.NewMarotoPDFGenerator(),
		xlsx.NewExcelizeExporter(cfg.App.Name),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerFile,
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DraftUC:   draftUC,
		ExportUC:  exportUC,
		JWTSecret: cfg.JWT.Secret,
		Metrics:   prom.Handler(),
		Logger:    log,
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
