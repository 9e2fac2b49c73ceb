package main

import (
	"log"

	"github.com/hibiken/asynq"

	"bookmart/internal/config"
	"bookmart/internal/jobs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
		},
	)

	worker := jobs.NewNotificationWorker(jobs.NewLogEmailSender())

	mux := asynq.NewServeMux()
	worker.Register(mux)

	log.Printf("Notification worker starting")
	if err := server.Run(mux); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
