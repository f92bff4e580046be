package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sardarhouse/guesthouse/config"
	"github.com/sardarhouse/guesthouse/internal/kafka"
	"github.com/sardarhouse/guesthouse/internal/notify"
	kafkaGo "github.com/segmentio/kafka-go"
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ConfirmationsTopic)
	defer consumer.Close()

	receipts := notify.NewPDFReceiptGenerator(cfg.Receipts.Dir, cfg.Property.Name)
	mailer := notify.NewSMTPMailer(cfg.Mail, cfg.Property.Name)
	dispatcher := notify.NewDispatcher(receipts, mailer, cfg.HTTP.PublicURL, logger)

	logger.Info("notification worker started",
		zap.String("topic", cfg.Kafka.ConfirmationsTopic),
		zap.String("group", cfg.Kafka.GroupID))

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.ConfirmationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("decode confirmation event", zap.Error(err))
			return nil
		}
		dispatcher.NotifyConfirmation(event)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
