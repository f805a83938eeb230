package chat

import "time"

// Turn records one user message paired with the reply it produced. A turn is
// only ever appended complete; there are no partial turns in history.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	CreatedAt time.Time `json:"createdAt"`
}
