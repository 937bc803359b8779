package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-journal-backend/internal/config"
	"travel-journal-backend/internal/handlers"
	"travel-journal-backend/internal/repository"
	"travel-journal-backend/internal/services"
	"travel-journal-backend/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultConfigFile = "config.yaml"

func Run() {
	// Load configuration
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	// Connect to database
	db, err := repository.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Apply migrations
	if err := repository.Migrate(ctx, cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Open blob store
	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open blob store")
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Blob store ready")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	userService := services.NewUserService(userRepo, tokenService)
	storyService := services.NewStoryService(storyRepo, blobs, cfg.Server.PublicURL)
	imageService := services.NewImageService(blobs, cfg.Server.PublicURL)

	// Setup router
	router := handlers.NewRouter(handlers.RouterConfig{
		Users:     handlers.NewUserHandler(userService),
		Stories:   handlers.NewStoryHandler(storyService),
		Images:    handlers.NewImageHandler(imageService, cfg.Server.MaxUploadBytes),
		Health:    handlers.NewHealthHandler(db),
		Tokens:    tokenService,
		AssetsDir: cfg.Server.AssetsDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
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
