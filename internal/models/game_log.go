package models

import "time"

type GameLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GameTitle string    `json:"game_title"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	PlayedAt  time.Time `json:"played_at"`
}

// GameLogEntry is the admin listing view, joined with the player's identity.
type GameLogEntry struct {
	GameLog
	UserPhone string  `json:"user_phone"`
	UserName  *string `json:"user_name,omitempty"`
}
