package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hodastore/store-api/internal/config"
	"github.com/hodastore/store-api/internal/events"
	"github.com/hodastore/store-api/internal/notify"
	"github.com/hodastore/store-api/internal/redisx"
	"github.com/joho/godotenv"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required for the notifier")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	router := notify.Router{}
	channel := notify.ChannelEmail
	if cfg.SMTPHost != "" {
		router.Email = &notify.EmailSender{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPass,
			From:      cfg.EmailFrom,
			AdminAddr: cfg.AdminEmail,
		}
	}
	if cfg.TelegramToken != "" {
		router.Telegram = &notify.TelegramSender{Token: cfg.TelegramToken, ChatID: cfg.TelegramChatID}
		channel = notify.ChannelTelegram
	}

	sub := &notify.Subscriber{
		Redis:    rdb,
		Notifier: router,
		Channel:  channel,
		Timeout:  cfg.NotifyTimeout,
		Service:  cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "store-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := events.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderCreated, workers)

	go func() {
		slog.Info("notifier consumer started", "group", group, "topic", events.TopicOrderCreated, "workers", workers)
		if err := cons.Start(ctx, sub.HandleOrderCreated); err != nil {
			slog.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down notifier")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
