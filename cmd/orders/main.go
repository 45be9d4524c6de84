package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/veltmart/backend/internal/clients"
	"github.com/veltmart/backend/internal/config"
	"github.com/veltmart/backend/internal/fanout"
	"github.com/veltmart/backend/internal/httpx"
	kafkax "github.com/veltmart/backend/internal/kafka"
	"github.com/veltmart/backend/internal/orders"
	"github.com/veltmart/backend/internal/postgres"
	"github.com/veltmart/backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.ServiceName+"-orders").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents, 1024, log)
	prod.Start()

	pool := fanout.NewPool(cfg.FanoutWorkers, cfg.FanoutQueue, log)

	stockClient := clients.NewStock(cfg.StockURL, cfg.ClientTimeout)
	notifClient := clients.NewNotifications(cfg.NotificationsURL, cfg.ClientTimeout)

	svc := orders.NewService(&orders.Repo{DB: db}, stockClient, notifClient, pool, prod,
		cfg.ServiceName+"-orders", log)

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Svc: svc, Redis: rdb}).Register(router)

	if err := httpx.Serve(ctx, cfg.HTTPAddr, router, log); err != nil {
		log.Error().Err(err).Msg("server exit")
	}

	// Drain queued side effects, then flush queued events.
	pool.Close()
	prod.Close()
	prod.WaitClosed()
	log.Info().Msg("shutdown complete")
}
