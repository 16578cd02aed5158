package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/admin-dashboard/internal/api"
	"github.com/example/admin-dashboard/internal/config"
	"github.com/example/admin-dashboard/internal/controller"
	"github.com/example/admin-dashboard/internal/infrastructure/kafka"
	"github.com/example/admin-dashboard/internal/infrastructure/store"
	"github.com/example/admin-dashboard/internal/query"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	bootLogger := logrus.New()
	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	logger.Info("========================================")
	logger.Info("Admin Dashboard - API")
	logger.Info("========================================")
	logger.Infof("Products:  %s", cfg.ProductsURL)
	logger.Infof("Users:     %s", cfg.UsersURL)
	logger.Infof("Medicines: %s", cfg.MedicinesURL)

	// Fetch events go to Kafka only when brokers are configured
	var observer resource.Observer
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer producer.Close()
		observer = kafka.NewFetchPublisher(producer)
		logger.Infof("Publishing fetch events to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clients := query.NewClients(cfg.Endpoints(), store.NewMemoryCache(), observer, logger)
	views := controller.NewRegistry()
	go views.RunJanitor(ctx, cfg.ViewIdleTimeout, logger)
	handlers := api.NewHandlers(clients.Handler(), views, logger)
	router := api.NewRouter(handlers, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
}
