package convo

import (
	"context"
	"time"
)

// Store persists conversation state and the last confirmed order per sender.
// Get returns (nil, nil) when no state exists.
type Store interface {
	Get(ctx context.Context, senderKey string) (*ConversationState, error)
	Set(ctx context.Context, senderKey string, st *ConversationState) error
	Delete(ctx context.Context, senderKey string) error
	GetLastOrder(ctx context.Context, senderKey string) (*Order, error)
	SetLastOrder(ctx context.Context, senderKey string, o *Order) error
}

// Ledger is the system of record for finalized orders. Append is called once
// at confirmation; UpdateStatus on cancellation.
type Ledger interface {
	Append(ctx context.Context, o Order) error
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error
}

// Notifier delivers admin notifications. Best effort: the engine logs its
// errors and never lets them reach the customer.
type Notifier interface {
	OrderConfirmed(ctx context.Context, o Order) error
	OrderCancelled(ctx context.Context, orderID, customerName string) error
}

// Gate rate-limits inbound messages per sender key.
type Gate interface {
	Allow(key string, now time.Time) (ok bool, retryAfter time.Duration)
}
