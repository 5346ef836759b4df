package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dbelyaev/recapd/internal/server"
	"github.com/dbelyaev/recapd/internal/server/config"
)

func main() {
	// Missing .env is fine; configuration falls back to defaults, a JSON
	// config file, real environment variables, and flags.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
