// Package notify delivers admin notifications. Everything here is best
// effort from the engine's point of view: callers log failures and move on.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/foodstream/veggiebot/internal/convo"
	"github.com/foodstream/veggiebot/internal/events"
	kafkax "github.com/foodstream/veggiebot/internal/kafka"
)

// Kafka publishes order events for cmd/notifier to pick up and deliver.
type Kafka struct {
	Confirmed *kafkax.Producer
	Cancelled *kafkax.Producer
	Service   string
}

func (k *Kafka) OrderConfirmed(_ context.Context, o convo.Order) error {
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      k.Service,
		CorrelationID: o.OrderID,
		Payload: kafkax.MustMarshal(events.OrderConfirmedPayload{
			OrderID:         o.OrderID,
			Name:            o.Name,
			Phone:           o.Phone,
			Bundles:         o.Bundles,
			TotalPrice:      o.TotalPrice,
			DiscountPercent: o.DiscountPercent,
			Address:         o.Address,
			Postcode:        o.Postcode,
			DeliverySlot:    o.DeliverySlot,
		}),
	}
	k.Confirmed.Publish(events.PartitionKey(o.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderConfirmed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}

func (k *Kafka) OrderCancelled(_ context.Context, orderID, customerName string) error {
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderCancelled,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      k.Service,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(events.OrderCancelledPayload{
			OrderID: orderID,
			Name:    customerName,
		}),
	}
	k.Cancelled.Publish(events.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderCancelled)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}

var _ convo.Notifier = (*Kafka)(nil)
