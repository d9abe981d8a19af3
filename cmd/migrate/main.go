// Package main applies the save-slot schema migrations to PostgreSQL.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/config"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/observability"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	v := config.NewViper()
	v.SetConfigFile(*configPath)
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("reading config: %v", err)
	}
	// Migrations always target the database, whatever the save backend.
	v.Set("saves.backend", config.BackendPostgres)
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	n := *steps
	switch *direction {
	case "up":
	case "down":
		if n == 0 {
			logger.Fatal("refusing to roll back every migration; pass -steps")
		}
		n = -n
	default:
		logger.Fatal("invalid direction", zap.String("direction", *direction))
	}

	version, err := postgres.Migrate(cfg.Database.DSN(), *dir, n)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintf(os.Stdout, "migrated %s to version=%d [%s]\n", *direction, version, time.Since(start))
}
