package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gatehouse/internal/config"
	"gatehouse/internal/db"
	"gatehouse/internal/queue"
	"gatehouse/internal/repository"
	"gatehouse/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	approvalQueue := queue.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	userRepo := repository.NewUserRepository(gormDB)

	w := worker.New(userRepo, approvalQueue, cfg.WorkerPollInterval, cfg.WorkerBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w.Run(ctx)
}
