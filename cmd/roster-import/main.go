package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coaching-admin-client/internal/batch"
	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/credentials"
	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/rest"
	"coaching-admin-client/internal/roster"
)

func main() {
	var (
		file    = flag.String("file", "", "path to the roster spreadsheet")
		batchID = flag.String("batch", "", "target batch id")
		token   = flag.String("token", "", "bearer token override (skips the credential store)")
	)
	flag.Parse()

	if *file == "" || *batchID == "" {
		fmt.Fprintln(os.Stderr, "usage: roster-import -file roster.xlsx -batch <batch-id> [-token <token>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	var creds credentials.Provider
	if *token != "" {
		creds = credentials.Static{Token: *token}
	} else {
		store, err := credentials.NewRedisStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to credential store")
		}
		defer store.Close()
		creds = store
	}

	var recorder journal.Recorder = journal.Noop{}
	if cfg.Journal.Enabled {
		recorder, err = journal.NewMySQL(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to journal database")
		}
	}

	client := rest.NewClient(cfg, creds)
	dir := batch.NewDirectory(client)
	assigner := batch.NewAssigner(client, dir, recorder)
	importer := roster.NewImporter(cfg, assigner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Warn().Msg("Interrupted, cancelling import")
		cancel()
	}()

	count, err := importer.ImportFile(ctx, *file, *batchID)
	if err != nil {
		log.Error().Err(err).Int("assigned", count).Msg("Roster import failed")
		os.Exit(1)
	}

	log.Info().Int("assigned", count).Str("batch_id", *batchID).Msg("Roster import finished")
}
