package convo

import "time"

// DraftOrder is the partially filled order attached to a conversation. Fields
// are populated stage by stage; a state at StageAskSlot always has name,
// bundles, address and postcode already set.
type DraftOrder struct {
	Name      string `json:"name,omitempty"`
	Bundles   int    `json:"bundles,omitempty"`
	Address   string `json:"address,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	SlotIndex int    `json:"slot_index"`
	HasSlot   bool   `json:"has_slot,omitempty"`
}

// ConversationState is the one in-progress conversation for a sender. The
// store holds at most one per sender key.
type ConversationState struct {
	Stage     Stage      `json:"stage"`
	Draft     DraftOrder `json:"draft"`
	Modifying bool       `json:"modifying,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newState(stage Stage, now time.Time) *ConversationState {
	return &ConversationState{Stage: stage, UpdatedAt: now}
}

type OrderStatus string

const (
	StatusConfirmed OrderStatus = "Confirmed"
	StatusCancelled OrderStatus = "Cancelled"
)

// Order is a finalized order. Immutable once emitted except for Status, which
// only moves Confirmed -> Cancelled.
type Order struct {
	OrderID         string      `json:"order_id"`
	Name            string      `json:"name"`
	Bundles         int         `json:"bundles"`
	UnitPrice       float64     `json:"unit_price"`
	TotalPrice      float64     `json:"total_price"`
	DiscountPercent float64     `json:"discount_percent"`
	Address         string      `json:"address"`
	Postcode        string      `json:"postcode"`
	DeliverySlot    string      `json:"delivery_slot"`
	Phone           string      `json:"phone"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
