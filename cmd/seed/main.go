package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-social-network/config"
	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/container"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadNoAuth()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	if cfg.StorageDriver == "memory" {
		log.Fatal("seeding needs a persistent store; set STORAGE_DRIVER=postgres")
	}

	ctx := context.Background()
	c, closeStore, err := container.Open(ctx, cfg, logger, nil)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	seeded, err := application.Seed(ctx, c.Users, c.Posts, logger)
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	if !seeded {
		fmt.Println("users table not empty; nothing seeded")
		return
	}
	fmt.Printf("seeded demo users (password=%s)\n", application.DemoPassword)
}
