package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/foodstream/veggiebot/internal/config"
	"github.com/foodstream/veggiebot/internal/events"
	kafkax "github.com/foodstream/veggiebot/internal/kafka"
	"github.com/foodstream/veggiebot/internal/notify"
	"github.com/foodstream/veggiebot/internal/redisx"
	"github.com/foodstream/veggiebot/internal/twilio"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if !cfg.AdminNotificationsEnabled {
		log.Fatal("notifier: ADMIN_NOTIFICATIONS_ENABLED must be true")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	admin := &notify.Admin{
		Sender:     twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
		Redis:      rdb,
		AdminPhone: cfg.AdminPhone,
	}

	group := getenv("NOTIFIER_GROUP", "admin-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), 2)

	confirmed := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderConfirmed, workers)
	cancelled := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderCancelled, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s", group, events.TopicOrderConfirmed)
		if err := confirmed.Start(ctx, admin.HandleConfirmed); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()
	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s", group, events.TopicOrderCancelled)
		if err := cancelled.Start(ctx, admin.HandleCancelled); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
