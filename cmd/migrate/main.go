package main

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/repository/postgres"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to roll back instead of migrating up")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	fmt.Printf("Migrating database at %s:%d from %s...\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Migrations)

	if *down > 0 {
		if err := postgres.RollbackMigrations(cfg.Database.DSN(), cfg.Database.Migrations, *down); err != nil {
			panic(fmt.Sprintf("Failed to roll back: %v", err))
		}
		fmt.Printf("Rolled back %d migration(s)\n", *down)
		return
	}

	if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.Migrations); err != nil {
		panic(fmt.Sprintf("Failed to migrate: %v", err))
	}
	fmt.Println("Migrations applied successfully")
}
