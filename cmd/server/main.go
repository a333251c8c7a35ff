package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/Tron16/SolarScheduler/internal/adapter/mail"
	"github.com/Tron16/SolarScheduler/internal/adapter/predictor"
	"github.com/Tron16/SolarScheduler/internal/adapter/store"
	"github.com/Tron16/SolarScheduler/internal/handler"
	"github.com/Tron16/SolarScheduler/internal/middleware"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/Tron16/SolarScheduler/internal/service"
	"github.com/Tron16/SolarScheduler/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting SolarScheduler",
		"port", cfg.Port,
		"prediction_api", cfg.PredictionURL,
		"require_verification", cfg.RequireVerified,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	var mailer port.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		mailer = mail.LogMailer{}
	}

	httpPredictor := predictor.NewHTTPPredictor(predictor.Config{
		URL:     cfg.PredictionURL,
		Token:   cfg.PredictionToken,
		Timeout: time.Duration(cfg.PredictionTimeout) * time.Second,
	})

	// ── Services ─────────────────────────────────────────────────────────
	authBus := service.NewAuthStateBus()
	authService := service.NewAuthService(pgStore, pgStore, mailer, authBus, cfg)
	predictionService := service.NewPredictionService(httpPredictor, pgStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.Audit(pgStore))

	// ── Public Routes ────────────────────────────────────────────────────
	public := app.Group("/api/v1")

	authHandler := handler.NewAuthHandler(authService)
	authHandler.Register(public)

	contactHandler := handler.NewContactHandler(pgStore)
	contactHandler.Register(public)

	// Health check
	public.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.RequireAuth(authService))

	authHandler.RegisterProtected(api)

	predictionHandler := handler.NewPredictionHandler(predictionService)
	predictionHandler.Register(api)

	streamHandler := handler.NewStreamHandler(authBus)
	streamHandler.Register(api)

	// ── Admin Routes ─────────────────────────────────────────────────────
	admin := api.Group("/admin", middleware.RequireAdmin())

	adminHandler := handler.NewAdminHandler(pgStore, pgStore, authService, pgStore)
	adminHandler.Register(admin)

	contactHandler.RegisterAdmin(admin)

	modelHandler := handler.NewModelHandler(pgStore)
	modelHandler.Register(admin)

	templateHandler := handler.NewTemplateHandler(pgStore)
	templateHandler.Register(admin)

	auditHandler := handler.NewAuditHandler(pgStore)
	auditHandler.RegisterAdmin(admin)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
