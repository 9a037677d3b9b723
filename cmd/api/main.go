package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mijnfegon/mijnfegon-backend/api/routes"
	"github.com/mijnfegon/mijnfegon-backend/internal/auditlog"
	"github.com/mijnfegon/mijnfegon-backend/internal/auth"
	"github.com/mijnfegon/mijnfegon-backend/internal/points"
	"github.com/mijnfegon/mijnfegon-backend/internal/registrations"
	"github.com/mijnfegon/mijnfegon-backend/internal/shop"
	"github.com/mijnfegon/mijnfegon-backend/internal/users"
	"github.com/mijnfegon/mijnfegon-backend/pkg/auth/session"
	"github.com/mijnfegon/mijnfegon-backend/pkg/compenda"
	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/mailer"
	"github.com/mijnfegon/mijnfegon-backend/pkg/metrics"
	"github.com/mijnfegon/mijnfegon-backend/pkg/migrate"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox"
	"github.com/mijnfegon/mijnfegon-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	compendaClient, err := compenda.NewClient(cfg.Compenda)
	if err != nil {
		logg.Error(context.Background(), "failed to create compenda client", err)
		os.Exit(1)
	}

	mailClient, err := mailer.NewClient(cfg.Sendgrid)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail client", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	auditService, err := auditlog.NewService(auditlog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	pointsService, err := points.NewService(points.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create points service", err)
		os.Exit(1)
	}

	regRepo := registrations.NewRepository(dbClient.DB())
	watcher := registrations.NewWatcher(regRepo, logg)
	approvalMetrics := metrics.NewApprovalMetrics(prometheus.DefaultRegisterer)

	regService, err := registrations.NewService(registrations.ServiceParams{
		Transactor: dbClient,
		Repo:       regRepo,
		Compenda:   compendaClient,
		Mailer:     mailClient,
		Audit:      auditService,
		Outbox:     outboxService,
		Watcher:    watcher,
		Metrics:    approvalMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create registration service", err)
		os.Exit(1)
	}

	importer, err := registrations.NewImporter(dbClient, regRepo, outboxService, auditService, watcher, cfg.Import, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create importer", err)
		os.Exit(1)
	}

	shopRepo := shop.NewRepository(dbClient.DB())
	shopService, err := shop.NewService(dbClient, shopRepo, pointsService, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:  cfg,
			Logger:  logg,
			DB:      dbClient,
			Redis:   redisClient,
			Session: sessionManager,

			AuthService:     authService,
			Registrations:   regService,
			Importer:        importer,
			UserRepo:        userRepo,
			PointsService:   pointsService,
			AuditService:    auditService,
			ShopService:     shopService,
			ShopRepo:        shopRepo,
			ApprovalMetrics: approvalMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
