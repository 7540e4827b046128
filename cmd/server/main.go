// Command server runs the canteen backend: the HTTP read API, the menu and
// occupancy ingestion pollers, and push notification delivery.
//
// Startup order: env + config → logging → tracing → storage → notification
// stack → pollers → HTTP server. Shutdown is graceful: SIGINT/SIGTERM stops
// the pollers, drains in-flight requests, and flushes the tracer.
//
// @title        SKS Canteen API
// @version      1.0
// @description  Menu, occupancy and meal notification backend for the SKS canteen.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/Solvro/backend-topwr-sks/docs"
	"github.com/Solvro/backend-topwr-sks/internal/config"
	"github.com/Solvro/backend-topwr-sks/internal/domain"
	httpapi "github.com/Solvro/backend-topwr-sks/internal/http"
	"github.com/Solvro/backend-topwr-sks/internal/notify"
	"github.com/Solvro/backend-topwr-sks/internal/observability"
	"github.com/Solvro/backend-topwr-sks/internal/occupancy"
	"github.com/Solvro/backend-topwr-sks/internal/poller"
	"github.com/Solvro/backend-topwr-sks/internal/repo"
	"github.com/Solvro/backend-topwr-sks/internal/scraper"
	"github.com/Solvro/backend-topwr-sks/internal/sysutil"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	// Storage
	db, err := repo.Open(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	loc, err := time.LoadLocation(cfg.Scraper.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scraper.Timezone).Msg("invalid timezone")
	}

	// Notifications (optional; the pipeline runs without them)
	var notifier scraper.Notifier
	if cfg.FCM.Enabled {
		messenger, err := notify.NewFCMMessenger(ctx, cfg.FCM.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("fcm init failed")
		}
		notifier = &notify.Dispatcher{
			DB:        db,
			Messenger: messenger,
			TTL:       domain.TokenTTL,
			Log:       log.With().Str("component", "dispatcher").Logger(),
		}
		log.Info().Msg("push notifications enabled")
	} else {
		log.Info().Msg("push notifications disabled")
	}

	// Ingestion pollers
	menuIngestor := &scraper.Ingestor{
		DB:       db,
		Fetcher:  scraper.NewHTTPFetcher(cfg.Scraper.MenuURL, cfg.Scraper.FetchTimeout),
		Notifier: notifier,
		Cooldown: cfg.Scraper.NotifyCooldown,
		Log:      log.With().Str("component", "menu-ingestor").Logger(),
	}
	go (&poller.Poller{
		Name:     "menu",
		Interval: cfg.Scraper.MenuPollInterval,
		Job:      menuIngestor.Ingest,
		Log:      log.Logger,
	}).Run(ctx)

	if cfg.Scraper.OccupancyURL != "" {
		occIngestor := &occupancy.Ingestor{
			DB:       db,
			Fetcher:  occupancy.NewHTTPFeedFetcher(cfg.Scraper.OccupancyURL, cfg.Scraper.FetchTimeout),
			Location: loc,
			Log:      log.With().Str("component", "occupancy-ingestor").Logger(),
		}
		go (&poller.Poller{
			Name:     "occupancy",
			Interval: cfg.Scraper.OccupancyPollInterval,
			Job:      occIngestor.Ingest,
			Log:      log.Logger,
		}).Run(ctx)
	} else {
		log.Warn().Msg("OCCUPANCY_URL unset, occupancy ingestion disabled")
	}

	// HTTP server
	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, loc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
