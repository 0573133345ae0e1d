package ficsdto

import "time"

type GameSummary struct {
	ID          string    `json:"id"`
	Slot        int       `json:"slot"`
	Active      bool      `json:"active"`
	White       string    `json:"white"`
	Black       string    `json:"black"`
	WhiteRating string    `json:"white_rating,omitempty"`
	BlackRating string    `json:"black_rating,omitempty"`
	Relation    string    `json:"relation"`
	Result      string    `json:"result,omitempty"`
	Description string    `json:"description,omitempty"`
	MoveCount   int       `json:"move_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Position struct {
	FEN        string `json:"fen"`
	Turn       string `json:"turn"`
	MoveNumber int    `json:"move_number"`
	LastMove   string `json:"last_move,omitempty"`
	WhiteClock int    `json:"white_clock"`
	BlackClock int    `json:"black_clock"`
	Flipped    bool   `json:"flipped"`
}

type GameDetail struct {
	GameSummary
	Positions []Position      `json:"positions"`
	Notes     []string        `json:"notes,omitempty"`
	Comments  []Communication `json:"comments,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Seek struct {
	ID          int    `json:"id"`
	Handle      string `json:"handle"`
	Rating      int    `json:"rating"`
	Minutes     int    `json:"minutes"`
	Increment   int    `json:"increment"`
	Rated       bool   `json:"rated"`
	Type        string `json:"type"`
	Color       string `json:"color,omitempty"`
	RatingRange string `json:"rating_range"`
}

// Status summarises the session for health checks and dashboards.
type Status struct {
	Transport      string `json:"transport"`
	State          string `json:"state"`
	Games          int    `json:"games"`
	ActiveSlots    []int  `json:"active_slots"`
	Conversations  int    `json:"conversations"`
	Seeks          int    `json:"seeks"`
	UnreadMessages int    `json:"unread_messages"`
	VersionOld     bool   `json:"version_old"`
}
