// The worker process drains the tracking queue and delivers funnel telemetry
// to the ad platforms. It runs separately from the API so slow or flaky
// upstream calls never sit on a request path.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"webexpress_backend/internal/tracking"
	"webexpress_backend/internal/tracking/sinks"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting tracking worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse REDIS_URL", "error", err)
		panic("failed to parse REDIS_URL: " + err.Error())
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	}, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	worker := tracking.NewWorker(log, sinks.NewFacebook(cfg, log), sinks.NewGA(cfg, log))

	mux := asynq.NewServeMux()
	worker.Register(mux)

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received, stopping worker")
		server.Shutdown()
	}()

	if err := server.Run(mux); err != nil {
		log.Error("tracking worker stopped", "error", err)
		panic("tracking worker stopped: " + err.Error())
	}
}
