package notify

import (
	"context"

	"github.com/foodstream/veggiebot/internal/convo"
)

// Nop is used when admin notifications are disabled.
type Nop struct{}

func (Nop) OrderConfirmed(context.Context, convo.Order) error    { return nil }
func (Nop) OrderCancelled(context.Context, string, string) error { return nil }

var _ convo.Notifier = Nop{}
