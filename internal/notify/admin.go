package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/foodstream/veggiebot/internal/events"
	kafkax "github.com/foodstream/veggiebot/internal/kafka"
	"github.com/foodstream/veggiebot/internal/redisx"
)

// MessageSender pushes one message to a phone number (Twilio in production).
type MessageSender interface {
	SendMessage(ctx context.Context, to, body string) error
}

// Admin consumes order events and alerts the admin phone. Events are deduped
// by event ID so a redelivered Kafka message never pings the admin twice.
type Admin struct {
	Sender     MessageSender
	Redis      *redis.Client
	AdminPhone string
}

// HandleConfirmed is mounted as the consumer handler for order.confirmed.
func (a *Admin) HandleConfirmed(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderConfirmed {
		return nil
	}
	if dup, err := a.seen(ctx, env.EventID); err != nil || dup {
		return err
	}

	p, err := kafkax.UnwrapPayload[events.OrderConfirmedPayload](env.Payload)
	if err != nil {
		return err
	}
	return a.Sender.SendMessage(ctx, a.AdminPhone, formatNewOrder(p))
}

// HandleCancelled is mounted as the consumer handler for order.cancelled.
func (a *Admin) HandleCancelled(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderCancelled {
		return nil
	}
	if dup, err := a.seen(ctx, env.EventID); err != nil || dup {
		return err
	}

	p, err := kafkax.UnwrapPayload[events.OrderCancelledPayload](env.Payload)
	if err != nil {
		return err
	}
	return a.Sender.SendMessage(ctx, a.AdminPhone, formatCancellation(p))
}

func (a *Admin) seen(ctx context.Context, eventID string) (bool, error) {
	if a.Redis == nil {
		return false, nil
	}
	key := fmt.Sprintf(redisx.KeyDedup, "notifier", eventID)
	exists, err := redisx.Exists(ctx, a.Redis, key)
	if err != nil {
		// Dedup is advisory; losing it means at worst a duplicate alert.
		log.Printf("notify: dedup check: %v", err)
		return false, nil
	}
	if exists {
		return true, nil
	}
	_ = a.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
	return false, nil
}

func formatNewOrder(p events.OrderConfirmedPayload) string {
	lines := []string{
		"NEW VEGGIE ORDER!",
		"",
		fmt.Sprintf("Order ID: %s", p.OrderID),
		fmt.Sprintf("Customer: %s", p.Name),
		fmt.Sprintf("Phone: %s", p.Phone),
		fmt.Sprintf("Bundles: %d", p.Bundles),
		fmt.Sprintf("Total: %.2f", p.TotalPrice),
		fmt.Sprintf("Address: %s, %s", p.Address, p.Postcode),
		fmt.Sprintf("Delivery: %s", p.DeliverySlot),
		"",
		"Check the order ledger for full details.",
	}
	return strings.Join(lines, "\n")
}

func formatCancellation(p events.OrderCancelledPayload) string {
	return fmt.Sprintf("ORDER CANCELLED\n\nOrder ID: %s\nCustomer: %s\n\nPlease update the order ledger.", p.OrderID, p.Name)
}
