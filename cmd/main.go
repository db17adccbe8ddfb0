package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phoenixvc/mystira-backend/internal/clients/redis"
	"github.com/phoenixvc/mystira-backend/internal/data/db"
	"github.com/phoenixvc/mystira-backend/internal/data/docstore"
	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
	"github.com/phoenixvc/mystira-backend/internal/seed"
	"github.com/phoenixvc/mystira-backend/internal/services"
	"github.com/phoenixvc/mystira-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Env
	log.Info("Loading environment variables from main...")
	routingFile := utils.GetEnv("DOCSTORE_ROUTING_FILE", "", log)
	seedOnStart := utils.GetEnvAsBool("SEED_ON_START", true, log)
	seedDataDir := utils.GetEnv("SEED_DATA_DIR", "", log)
	syncBatchSize := utils.GetEnvAsInt("SYNC_BATCH_SIZE", 100, log)
	syncMaxRetries := utils.GetEnvAsInt("SYNC_MAX_RETRIES", 5, log)
	syncIntervalSecs := utils.GetEnvAsInt("SYNC_INTERVAL_SECONDS", 15, log)
	syncParallelism := utils.GetEnvAsInt("SYNC_PARALLELISM", 4, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()
	if err = db.AutoMigrateAll(thePG); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}

	// Document store
	log.Info("Setting up document store from main...")
	docClient, err := docstore.NewClient(ctx, log)
	if err != nil {
		log.Error("Document store init failed", "error", err)
		os.Exit(1)
	}
	registry := docstore.DefaultRegistry()
	if routingFile != "" {
		if err := registry.ApplyOverrides(routingFile); err != nil {
			log.Error("Routing overrides failed", "file", routingFile, "error", err)
			os.Exit(1)
		}
	}
	docStore := docstore.NewStore(docClient, registry, log)

	// Repos
	log.Info("Setting up Repos from main...")
	allRepos := repos.New(thePG, log)

	// Seeding
	if seedOnStart {
		classifier, err := seed.NewClassifier()
		if err != nil {
			log.Error("Could not init echo classifier", "error", err)
			os.Exit(1)
		}
		var lock redis.SeedLock
		if os.Getenv("REDIS_ADDR") != "" {
			lock, err = redis.NewSeedLock(log)
			if err != nil {
				log.Error("Could not init seed lock", "error", err)
				os.Exit(1)
			}
			defer lock.Close()
		} else {
			log.Info("REDIS_ADDR not set, seeding without a distributed lock")
		}
		seedService := services.NewSeedService(thePG, log, allRepos, seed.Loader{DataDir: seedDataDir}, classifier, lock)
		if err := seedService.SeedAll(ctx); err != nil {
			log.Error("Master data seeding failed", "error", err)
			os.Exit(1)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	accountService := services.NewAccountService(thePG, log, allRepos)
	sessionService := services.NewSessionService(thePG, log, allRepos)
	_ = accountService
	_ = sessionService

	syncService := services.NewPolyglotSyncService(log, allRepos.SyncLog, docStore, services.SyncConfig{
		BatchSize:   syncBatchSize,
		MaxRetries:  syncMaxRetries,
		Interval:    time.Duration(syncIntervalSecs) * time.Second,
		Parallelism: syncParallelism,
	})

	log.Info("Starting sync worker from main...")
	if err := syncService.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("Sync worker failed", "error", err)
		os.Exit(1)
	}
	log.Info("Shutting down")
}
