package state

import (
	"context"
	"sync"

	"github.com/foodstream/veggiebot/internal/convo"
)

// Memory is the non-durable in-process fallback, interchangeable with Redis
// behind the same contract. Data is lost on restart.
type Memory struct {
	mu     sync.Mutex
	states map[string]convo.ConversationState
	orders map[string]convo.Order
}

func NewMemory() *Memory {
	return &Memory{
		states: make(map[string]convo.ConversationState),
		orders: make(map[string]convo.Order),
	}
}

func (m *Memory) Get(_ context.Context, senderKey string) (*convo.ConversationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[senderKey]
	if !ok {
		return nil, nil
	}
	cp := st
	return &cp, nil
}

func (m *Memory) Set(_ context.Context, senderKey string, st *convo.ConversationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[senderKey] = *st
	return nil
}

func (m *Memory) Delete(_ context.Context, senderKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, senderKey)
	return nil
}

func (m *Memory) GetLastOrder(_ context.Context, senderKey string) (*convo.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[senderKey]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (m *Memory) SetLastOrder(_ context.Context, senderKey string, o *convo.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[senderKey] = *o
	return nil
}

var _ convo.Store = (*Memory)(nil)
