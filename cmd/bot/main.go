package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/foodstream/veggiebot/internal/config"
	"github.com/foodstream/veggiebot/internal/convo"
	"github.com/foodstream/veggiebot/internal/events"
	"github.com/foodstream/veggiebot/internal/httpx"
	kafkax "github.com/foodstream/veggiebot/internal/kafka"
	"github.com/foodstream/veggiebot/internal/ledger"
	"github.com/foodstream/veggiebot/internal/notify"
	"github.com/foodstream/veggiebot/internal/postgres"
	"github.com/foodstream/veggiebot/internal/ratelimit"
	"github.com/foodstream/veggiebot/internal/redisx"
	"github.com/foodstream/veggiebot/internal/state"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Order ledger (system of record).
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Conversation state: Redis when enabled, in-memory fallback otherwise.
	var store convo.Store
	if cfg.RedisEnabled {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable (%v), falling back to in-memory state", err)
			store = state.NewMemory()
		} else {
			store = state.NewRedis(rdb, cfg.StateTTL, cfg.LastOrderTTL)
		}
	} else {
		log.Println("using in-memory state storage, data is lost on restart")
		store = state.NewMemory()
	}

	// Admin notifications ride on Kafka; cmd/notifier delivers them.
	var notifier convo.Notifier = notify.Nop{}
	if cfg.AdminNotificationsEnabled {
		pConfirmed := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderConfirmed, 1024)
		pConfirmed.Start(ctx)
		pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCancelled, 1024)
		pCancelled.Start(ctx)
		defer func() {
			pConfirmed.Close()
			pCancelled.Close()
			pConfirmed.WaitClosed()
			pCancelled.WaitClosed()
		}()
		notifier = &notify.Kafka{Confirmed: pConfirmed, Cancelled: pCancelled, Service: cfg.ServiceName}
	}

	engine, err := convo.New(
		store,
		&ledger.Postgres{DB: db},
		notifier,
		ratelimit.New(cfg.RateLimitMessages, cfg.RateLimitWindow),
		convo.Options{
			UnitPrice:   cfg.UnitPrice,
			DeliveryFee: cfg.DeliveryFee,
			Currency:    cfg.CurrencySymbol,
			Tiers:       cfg.DiscountTiers,
			MaxBundles:  cfg.MaxBundles,
			Slots:       cfg.DeliverySlots,
		},
	)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	router := httpx.NewRouter()
	wh := &httpx.WebhookHandler{Engine: engine, Service: cfg.ServiceName}
	wh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
