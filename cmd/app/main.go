package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sardarhouse/guesthouse/config"
	"github.com/sardarhouse/guesthouse/internal/auth"
	"github.com/sardarhouse/guesthouse/internal/bootstrap"
	"github.com/sardarhouse/guesthouse/internal/cache"
	"github.com/sardarhouse/guesthouse/internal/gateway"
	"github.com/sardarhouse/guesthouse/internal/kafka"
	"github.com/sardarhouse/guesthouse/internal/repository"
	"github.com/sardarhouse/guesthouse/internal/service/booking"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.RoomTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	payments := gateway.NewPayFast(cfg.Gateway)
	jwtSvc := auth.NewJWTService(cfg.Auth)

	bookingService := booking.NewBookingService(
		bookingRepo,
		roomRepo,
		redisCache,
		payments,
		producer,
		cfg.Kafka.ConfirmationsTopic,
		logger,
	)

	if err := bootstrap.Run(ctx, cfg, bookingService, jwtSvc, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
