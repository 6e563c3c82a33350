package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"couple-journal-backend/internal/auth"
	"couple-journal-backend/internal/config"
	"couple-journal-backend/internal/events"
	"couple-journal-backend/internal/handlers"
	"couple-journal-backend/internal/obs"
	"couple-journal-backend/internal/repository"
	"couple-journal-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := obs.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.Environment)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to flush traces")
			}
		}()
		log.Info().Str("endpoint", cfg.Tracing.Endpoint).Msg("Tracing enabled")
	}

	// Connect to database
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database configuration")
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	store := repository.NewStore(db)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Events go to connected partners and, when configured, to RabbitMQ
	hub := events.NewHub()
	publisher := events.Multi{hub}
	if cfg.Events.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer amqpPub.Close()
		publisher = append(publisher, amqpPub)
		log.Info().Str("exchange", cfg.Events.Exchange).Msg("AMQP event publishing enabled")
	}

	// Initialize services
	access := services.NewAccess(store)
	photoService, err := services.NewPhotoService(ctx, access, services.PhotoConfig{
		Region:    cfg.AWS.Region,
		Bucket:    cfg.AWS.S3Bucket,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		Endpoint:  cfg.AWS.Endpoint,
		PublicURL: cfg.AWS.PublicURL,
		Expiry:    cfg.AWS.UploadExpiry,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo service")
	}

	router := handlers.NewRouter(handlers.Router{
		Users:         handlers.NewUserHandler(services.NewUserService(store, tokens)),
		Relationships: handlers.NewRelationshipHandler(services.NewRelationshipService(store, access, publisher)),
		Milestones:    handlers.NewMilestoneHandler(services.NewMilestoneService(store, access, publisher)),
		Timeline:      handlers.NewTimelineHandler(services.NewTimelineService(store, access, publisher)),
		Moods:         handlers.NewMoodHandler(services.NewMoodService(store, access)),
		Photos:        handlers.NewPhotoHandler(photoService),
		WebSocket:     handlers.NewWebSocketHandler(hub, tokens),
		Tokens:        tokens,
		DB:            store,
		AllowSignup:   cfg.Auth.AllowSignup,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(c config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch c.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
