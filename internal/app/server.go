package app

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tg-topup/internal/audit"
	"tg-topup/internal/bot"
	"tg-topup/internal/cache"
	"tg-topup/internal/config"
	"tg-topup/internal/db"
	"tg-topup/internal/deposit"
	"tg-topup/internal/event"
	"tg-topup/internal/jobs"
	"tg-topup/internal/logger"
	"tg-topup/internal/monitoring"
	"tg-topup/internal/notify"
	"tg-topup/internal/provider"
	"tg-topup/internal/security"
	"tg-topup/internal/telegram"
	"tg-topup/internal/webhook"
)

type Server struct {
	app  *fiber.App
	jobs *jobs.Manager
	db   *sql.DB
	port string
}

func NewServer() *Server {
	cfg := config.Load()
	logger.Init()
	monitoring.Init()

	database := db.Init(cfg.DBPath)

	bus := event.NewBus()
	auditLog := audit.New(database)
	store := deposit.NewStore(database)
	oxapay := provider.NewClient(cfg.OxaPayKey, cfg.OxaPayBaseURL)
	deposits := deposit.NewService(store, oxapay, bus, auditLog)

	tg := telegram.New(cfg.BotToken)

	var dedupe notify.Deduper
	if cfg.RedisAddr != "" {
		dedupe = cache.NewDedupe(cfg.RedisAddr)
	}
	notify.RegisterConsumers(bus, tg, dedupe)

	manager := jobs.New()
	manager.Register(bot.New(tg, deposits))

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/webhook", security.WebhookGuard(cfg.WebhookSecret))
	webhook.RegisterRoutes(app, deposits)

	api := app.Group("/api", security.APIKeyGuard(cfg.APIKey))
	deposit.RegisterRoutes(api, deposits)

	return &Server{app: app, jobs: manager, db: database, port: cfg.Port}
}

func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobsDone := make(chan struct{})
	go func() {
		s.jobs.Start(ctx)
		close(jobsDone)
	}()

	go func() {
		<-ctx.Done()
		s.app.Shutdown()
	}()

	err := s.app.Listen(":" + s.port)

	stop()
	<-jobsDone
	s.db.Close()
	logger.Sync()
	return err
}
