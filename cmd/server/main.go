package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/portix/portfolio-service/internal/api"
	"github.com/portix/portfolio-service/internal/config"
	"github.com/portix/portfolio-service/internal/database"
	"github.com/portix/portfolio-service/internal/kafka"
	"github.com/portix/portfolio-service/internal/portfolio"
	"github.com/portix/portfolio-service/internal/quotes"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	// Load .env if present; missing file is fine in production.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	quoteClient := quotes.NewClient(quotes.Config{ScanURL: cfg.Quotes.ScanURL})

	var events portfolio.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		events = producer
		log.Infof("publishing position events to %s", cfg.Kafka.Topic)
	}

	service := portfolio.NewService(db, quoteClient, events, log)
	handler := api.NewHandler(service, log)
	router := api.SetupRoutes(handler)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown failed: %v", err)
	}
}
