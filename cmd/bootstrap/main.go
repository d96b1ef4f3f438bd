package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"ai-course-builder-api/internal/config"
	"ai-course-builder-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting schema migration...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	client, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize postgres: %v", err)
	}
	defer cleanup()

	if err := client.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	fmt.Println("Schema migration completed.")
}
