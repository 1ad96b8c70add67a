// Package state persists one in-progress conversation and one last-order
// snapshot per sender, behind a backend-agnostic contract defined by the
// engine (convo.Store).
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodstream/veggiebot/internal/convo"
	"github.com/foodstream/veggiebot/internal/redisx"
)

// Redis is the durable backend. Values are JSON; conversation state expires
// after StateTTL, order snapshots live longer (LastOrderTTL).
type Redis struct {
	Client       *redis.Client
	StateTTL     time.Duration
	LastOrderTTL time.Duration
}

func NewRedis(client *redis.Client, stateTTL, lastOrderTTL time.Duration) *Redis {
	if stateTTL <= 0 {
		stateTTL = redisx.TTLConversationState
	}
	if lastOrderTTL <= 0 {
		lastOrderTTL = redisx.TTLLastOrder
	}
	return &Redis{Client: client, StateTTL: stateTTL, LastOrderTTL: lastOrderTTL}
}

func (r *Redis) Get(ctx context.Context, senderKey string) (*convo.ConversationState, error) {
	data, err := r.Client.Get(ctx, fmt.Sprintf(redisx.KeyConversationState, senderKey)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", senderKey, err)
	}
	var st convo.ConversationState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("state: decode %s: %w", senderKey, err)
	}
	return &st, nil
}

func (r *Redis) Set(ctx context.Context, senderKey string, st *convo.ConversationState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", senderKey, err)
	}
	key := fmt.Sprintf(redisx.KeyConversationState, senderKey)
	if err := r.Client.Set(ctx, key, data, r.StateTTL).Err(); err != nil {
		return fmt.Errorf("state: write %s: %w", senderKey, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, senderKey string) error {
	key := fmt.Sprintf(redisx.KeyConversationState, senderKey)
	if err := r.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("state: delete %s: %w", senderKey, err)
	}
	return nil
}

func (r *Redis) GetLastOrder(ctx context.Context, senderKey string) (*convo.Order, error) {
	data, err := r.Client.Get(ctx, fmt.Sprintf(redisx.KeyLastOrder, senderKey)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read last order %s: %w", senderKey, err)
	}
	var o convo.Order
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return nil, fmt.Errorf("state: decode last order %s: %w", senderKey, err)
	}
	return &o, nil
}

func (r *Redis) SetLastOrder(ctx context.Context, senderKey string, o *convo.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("state: encode last order %s: %w", senderKey, err)
	}
	key := fmt.Sprintf(redisx.KeyLastOrder, senderKey)
	if err := r.Client.Set(ctx, key, data, r.LastOrderTTL).Err(); err != nil {
		return fmt.Errorf("state: write last order %s: %w", senderKey, err)
	}
	return nil
}

var _ convo.Store = (*Redis)(nil)
