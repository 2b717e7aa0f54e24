package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status|version|redo|reset|up-by-one]

import (
	"context"
	"log"
	"os"

	"harbor-backend/internal/shared/config"
	"harbor-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command, args...); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
}
