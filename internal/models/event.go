package models

import "time"

// Event status values.
const (
	EventStatusActive = "active"
	EventStatusClosed = "closed"
)

// Event represents one matchmaking night, keyed by its date string (YYYY-MM-DD).
// CurrentRound is the authoritative phase (0-10); CurrentSession is stored
// alongside it for display and always equals ceil(round/2).
type Event struct {
	Date           string    `db:"date" json:"date"`
	Title          string    `db:"title" json:"title"`
	Venue          string    `db:"venue" json:"venue"`
	ChatLink       string    `db:"chat_link" json:"chat_link"`
	Status         string    `db:"status" json:"status"`
	CurrentRound   int       `db:"current_round" json:"current_round"`
	CurrentSession int       `db:"current_session" json:"current_session"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
