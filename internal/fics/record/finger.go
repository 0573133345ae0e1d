package record

import (
	"strconv"
	"strings"

	"github.com/park285/cheese-fics/internal/fics/grammar"
)

// GameRef names a game mentioned in a finger reply.
type GameRef struct {
	ID    int    `json:"id"`
	White string `json:"white"`
	Black string `json:"black"`
}

// FingerRating is one row of the rating table.
type FingerRating struct {
	Category string  `json:"category"`
	Rating   int     `json:"rating"`
	RD       float64 `json:"rd"`
	Win      int     `json:"win"`
	Loss     int     `json:"loss"`
	Draw     int     `json:"draw"`
	Total    int     `json:"total"`
	Best     int     `json:"best,omitempty"`
}

// FingerInfo is a decoded "finger" reply.
type FingerInfo struct {
	Handle           string         `json:"handle"`
	Titles           string         `json:"titles,omitempty"`
	LastDisconnected string         `json:"last_disconnected,omitempty"`
	OnFor            string         `json:"on_for,omitempty"`
	Idle             string         `json:"idle,omitempty"`
	Silenced         bool           `json:"silenced,omitempty"`
	Playing          *GameRef       `json:"playing,omitempty"`
	PartnerPlaying   *GameRef       `json:"partner_playing,omitempty"`
	Examining        *GameRef       `json:"examining,omitempty"`
	Simul            bool           `json:"simul,omitempty"`
	Observing        string         `json:"observing,omitempty"`
	Status           string         `json:"status,omitempty"`
	Ratings          []FingerRating `json:"ratings,omitempty"`
	Notes            []string       `json:"notes,omitempty"`
}

// FingerFromGroups builds a finger reply from a full submatch.
func FingerFromGroups(g []string) FingerInfo {
	if len(g) <= grammar.FingerFirstNoteGroup {
		return FingerInfo{}
	}
	info := FingerInfo{
		Handle:           g[1],
		Titles:           g[2],
		LastDisconnected: g[3],
		OnFor:            g[4],
		Idle:             g[5],
		Silenced:         g[6] != "",
		Playing:          gameRef(g[7:10]),
		PartnerPlaying:   gameRef(g[10:13]),
		Examining:        gameRef(g[13:16]),
		Simul:            g[16] != "",
		Observing:        g[17],
		Status:           g[18],
	}
	for i, cat := range grammar.FingerCategories {
		base := grammar.FingerFirstRatingGroup + i*grammar.FingerRatingGroupWidth
		if g[base] == "" {
			continue
		}
		rd, _ := strconv.ParseFloat(g[base+1], 64)
		info.Ratings = append(info.Ratings, FingerRating{
			Category: cat,
			Rating:   atoi(g[base]),
			RD:       rd,
			Win:      atoi(g[base+2]),
			Loss:     atoi(g[base+3]),
			Draw:     atoi(g[base+4]),
			Total:    atoi(g[base+5]),
			Best:     atoi(g[base+6]),
		})
	}
	last := -1
	for i := 0; i < grammar.FingerNoteCount; i++ {
		if idx := grammar.FingerFirstNoteGroup + i; idx < len(g) && g[idx] != "" {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		info.Notes = append(info.Notes, g[grammar.FingerFirstNoteGroup+i])
	}
	return info
}

func gameRef(g []string) *GameRef {
	if len(g) < 3 || g[0] == "" {
		return nil
	}
	return &GameRef{ID: atoi(g[0]), White: g[1], Black: g[2]}
}

// NoteCount is the number of finger notes present.
func (f FingerInfo) NoteCount() int { return len(f.Notes) }

// Note returns note i (zero-based) or "".
func (f FingerInfo) Note(i int) string {
	if i < 0 || i >= len(f.Notes) {
		return ""
	}
	return f.Notes[i]
}

// Rating returns the row for category, matched case-insensitively.
func (f FingerInfo) Rating(category string) (FingerRating, bool) {
	for _, r := range f.Ratings {
		if strings.EqualFold(r.Category, category) {
			return r, true
		}
	}
	return FingerRating{}, false
}
