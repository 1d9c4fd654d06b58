package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Its-Zach/grandline/internal/config"
	"github.com/Its-Zach/grandline/internal/server"
	"github.com/Its-Zach/grandline/internal/storage"
	"github.com/Its-Zach/grandline/internal/storage/postgres"
	"github.com/Its-Zach/grandline/internal/storage/sqlite"
)

func main() {
	seedPath := flag.String("seed", "", "Path to a YAML reference seed file (overrides GRANDLINE_SEED_PATH)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seedPath != "" {
		cfg.Reference.SeedPath = *seedPath
	}

	// Initialize storage for the configured engine
	var store storage.ReadingStore
	switch cfg.Storage.StorageEngine {
	case "postgres":
		store, err = postgres.NewReadingStore(cfg.Storage.PostgresURL)
	default:
		var sqliteStore *sqlite.ReadingStore
		sqliteStore, err = sqlite.NewReadingStore(cfg.Storage.DataPath + "/grandline.db")
		if err == nil {
			// Device settings persist in the sqlite settings table
			cfg, err = config.LoadConfigFromDB(sqliteStore.GetDB())
		}
		store = sqliteStore
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Apply the optional reference seed file before serving
	if cfg.Reference.SeedPath != "" {
		if err := storage.ApplySeedFile(context.Background(), store, cfg.Reference.SeedPath); err != nil {
			log.Fatalf("Failed to apply reference seed file: %v", err)
		}
		log.Printf("Applied reference seed file: %s", cfg.Reference.SeedPath)
	}

	// Wrap the store in a circuit breaker so a struggling database degrades
	// into spoken apologies and 5xx responses instead of piling up calls
	breakerCfg := storage.BreakerConfig{
		CallTimeout: time.Duration(cfg.Voice.StorageTimeoutSecs) * time.Second,
	}
	guarded := storage.NewBreakerStore(store, breakerCfg)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, _, err := server.Start(ctx, cfg, guarded)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Grand Line sensor backend running at http://%s (engine: %s)", addr, cfg.Storage.StorageEngine)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}
