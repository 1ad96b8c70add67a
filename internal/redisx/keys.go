package redisx

import "time"

const (
	// Conversation state per sender: state:{phone} -> JSON ConversationState
	KeyConversationState = "state:%s"

	// Last confirmed order per sender: order:{phone} -> JSON Order
	KeyLastOrder = "order:%s"

	// Dedup event processing in cmd/notifier: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	// Defaults; the store takes its real TTLs from config.
	TTLConversationState = 24 * time.Hour
	TTLLastOrder         = 7 * 24 * time.Hour
	TTLDedup             = 48 * time.Hour
)
