package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/admin-dashboard/internal/audit"
	"github.com/example/admin-dashboard/internal/config"
	"github.com/example/admin-dashboard/internal/infrastructure/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootLogger := logrus.New()
	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if !cfg.KafkaEnabled() {
		logger.Fatal("DASHBOARD_KAFKA_BROKERS is required")
	}

	logger.Info("========================================")
	logger.Info("Admin Dashboard - Fetch Auditor")
	logger.Info("========================================")
	logger.Infof("Kafka: %v", cfg.KafkaBrokers)
	logger.Infof("Topic: %s", cfg.KafkaTopic)
	logger.Infof("Group: %s", cfg.KafkaGroup)

	handler := audit.NewHandler(logger)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, logger)
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("Starting event consumer...")
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			logger.Errorf("Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal or a consumer that gave up
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-done:
	}

	logger.Info("Shutting down...")
	cancel()
	<-done

	for _, t := range handler.Tallies() {
		logger.WithFields(logrus.Fields{
			"resource": t.Resource,
			"loaded":   t.Loaded,
			"failed":   t.Failed,
		}).Info("Final tally")
	}
}
