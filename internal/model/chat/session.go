package chat

import "time"

// Session captures one conversation with an at-risk user. History lives for
// the process lifetime only; there is no persistence across restarts.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
