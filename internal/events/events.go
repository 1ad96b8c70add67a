// Package events defines the envelope and payloads published when orders are
// confirmed or cancelled. cmd/notifier consumes them to alert the admin.
package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderCancelled = "OrderCancelled"
)

const (
	TopicOrderConfirmed = "order.confirmed"
	TopicOrderCancelled = "order.cancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderConfirmedPayload struct {
	OrderID         string  `json:"order_id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Bundles         int     `json:"bundles"`
	TotalPrice      float64 `json:"total_price"`
	DiscountPercent float64 `json:"discount_percent"`
	Address         string  `json:"address"`
	Postcode        string  `json:"postcode"`
	DeliverySlot    string  `json:"delivery_slot"`
}

type OrderCancelledPayload struct {
	OrderID string `json:"order_id"`
	Name    string `json:"name"`
}

// Partition key = order_id, so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
