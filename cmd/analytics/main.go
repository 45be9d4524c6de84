package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/veltmart/backend/internal/analytics"
	"github.com/veltmart/backend/internal/config"
	kafkax "github.com/veltmart/backend/internal/kafka"
	"github.com/veltmart/backend/internal/orders"
	"github.com/veltmart/backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.ServiceName+"-analytics").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &analytics.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-analytics",
		Log:         log,
	}

	group := getenv("ANALYTICS_GROUP", "analytics-svc")
	workers := atoiDefault(os.Getenv("ANALYTICS_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderEvents, workers, log)

	log.Info().Str("group", group).Str("topic", orders.TopicOrderEvents).Int("workers", workers).
		Msg("analytics consumer started")
	if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
		log.Error().Err(err).Msg("consumer exit")
	}
	log.Info().Msg("shutdown complete")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
