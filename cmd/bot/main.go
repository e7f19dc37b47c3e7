package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/example/newspulse-bot/internal/app"
	"github.com/example/newspulse-bot/internal/config"
	"github.com/example/newspulse-bot/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	var repo repository.SubscriptionRepository
	if cfg.DatabaseURL != "" {
		repo, err = repository.NewPostgresSubscriptionRepository(cfg.DatabaseURL)
	} else {
		repo, err = repository.NewFileSubscriptionRepository(cfg.SubsPath)
	}
	if err != nil {
		log.Fatal(err)
	}

	application := app.New(cfg, repo)
	if err := application.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
