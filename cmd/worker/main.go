package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cruisedesk/sales-service/cache/redis"
	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/worker"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.Info("Starting Sales Service Availability Worker")

	// Load configuration (fallback to env variables if config file not found)
	cfg, err := config.Initialise("config.yaml", false)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Initialize the availability cache
	store, err := redis.NewRedisStore(cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to initialize availability cache: ", err)
	}

	// Setup Kafka consumer for platform booking events
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.BookingTopic,
		GroupID: cfg.Kafka.ConsumerGroup,
	})
	defer consumer.Close()

	invalidator := worker.NewAvailabilityInvalidator(store, consumer, log)

	// Graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Received shutdown signal, stopping worker...")
		cancel()
	}()

	if err := invalidator.Start(ctx); err != nil && err != context.Canceled {
		log.Fatal("Worker error: ", err)
	}

	log.Info("Worker stopped gracefully")
}
