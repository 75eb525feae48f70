package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"coaching-admin-client/internal/api"
	"coaching-admin-client/internal/batch"
	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/credentials"
	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/rest"
	"coaching-admin-client/internal/storage"
	"coaching-admin-client/internal/testctl"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting admin facade")

	// Credential store: bearer tokens live in the local redis instance
	creds, err := credentials.NewRedisStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to credential store")
	}
	defer creds.Close()

	// Mutation journal
	var recorder journal.Recorder = journal.Noop{}
	if cfg.Journal.Enabled {
		recorder, err = journal.NewMySQL(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to journal database")
		}
	}

	// Attachment resolution: s3:// URIs need the object store
	var store storage.Store
	if cfg.Storage.S3.Bucket != "" {
		store, err = storage.NewS3Store(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object store")
		}
	}

	client := rest.NewClient(cfg, creds)
	dir := batch.NewDirectory(client)
	resolver := testctl.NewResolver(store)

	handler := api.NewHandler(client, dir, resolver, recorder, cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RequestLogger())
	router.Use(gin.Recovery())

	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
