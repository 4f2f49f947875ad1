package game

import "time"

// State is the opaque game payload saved for a user.
type State struct {
	UserID    string         `json:"user_id"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}
