package types

import (
	"time"

	"github.com/google/uuid"
)

// Delivery records how the gateway answered one webhook request. It holds
// metadata only; bodies and subjects are never kept.
type Delivery struct {
	ID         uuid.UUID `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	EventID    string    `json:"event_id,omitempty"`
	Type       string    `json:"type,omitempty"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code"`
	Origin     string    `json:"origin,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
