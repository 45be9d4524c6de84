package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/veltmart/backend/internal/config"
	"github.com/veltmart/backend/internal/httpx"
	"github.com/veltmart/backend/internal/postgres"
	"github.com/veltmart/backend/internal/stock"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.ServiceName+"-stock").Logger()

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

	svc := stock.NewService(&stock.Repo{DB: db}, log)

	router := httpx.NewRouter()
	(&httpx.StockHandler{Svc: svc}).Register(router)

	if err := httpx.Serve(ctx, cfg.HTTPAddr, router, log); err != nil {
		log.Error().Err(err).Msg("server exit")
	}
	log.Info().Msg("shutdown complete")
}
