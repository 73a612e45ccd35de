package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finbook/internal/amqp"
	"finbook/internal/config"
	"finbook/internal/log"
	"finbook/internal/storage"
	"finbook/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Worker exited with error", log.FieldError, err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL must be set, the worker has nothing to consume without it")
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("SQLite storage ready", "path", cfg.SQLiteDBPath)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(store, logger)
	logger.Info("Consuming record events", "queue", cfg.AMQPQueue)

	if err := client.ConsumeRecordEvents(ctx, w.Handler(ctx)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Worker stopped gracefully")
	return nil
}
