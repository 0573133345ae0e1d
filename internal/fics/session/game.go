package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

// Outcome is the terminal result of a game.
type Outcome struct {
	Result      string `json:"result"`
	Description string `json:"description"`
}

// Game is one observed, played or examined game.
type Game struct {
	ID             uuid.UUID              `json:"id"`
	Slot           int                    `json:"slot"`
	Positions      []*style12.Position    `json:"positions"`
	Notes          []string               `json:"notes,omitempty"`
	Communications []record.Communication `json:"communications,omitempty"`
	Outcome        *Outcome               `json:"outcome,omitempty"`
	Relation       style12.Relation       `json:"relation"`
	WhiteRating    string                 `json:"white_rating,omitempty"`
	BlackRating    string                 `json:"black_rating,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`

	clock func() time.Time
}

// Last returns the newest position or nil.
func (g *Game) Last() *style12.Position {
	if g == nil || len(g.Positions) == 0 {
		return nil
	}
	return g.Positions[len(g.Positions)-1]
}

// Finished reports whether an outcome was recorded.
func (g *Game) Finished() bool { return g != nil && g.Outcome != nil }

// AddPosition appends a snapshot and adopts its relation.
func (g *Game) AddPosition(p *style12.Position) {
	if g == nil || p == nil {
		return
	}
	g.Positions = append(g.Positions, p)
	g.Relation = p.Relation
	g.touch()
}

func (g *Game) AddNote(note string) {
	if g == nil {
		return
	}
	g.Notes = append(g.Notes, note)
	g.touch()
}

func (g *Game) AddCommunication(c record.Communication) {
	if g == nil {
		return
	}
	g.Communications = append(g.Communications, c)
	g.touch()
}

// SetOutcome records the result without changing the relation.
func (g *Game) SetOutcome(result, description string) {
	if g == nil {
		return
	}
	g.Outcome = &Outcome{Result: result, Description: description}
	g.touch()
}

// Finish records the result and detaches the local user from the game.
func (g *Game) Finish(result, description string) {
	if g == nil {
		return
	}
	g.SetOutcome(result, description)
	g.Relation = style12.RelationUnknown
}

// Clone returns a copy whose slices can be read without holding the owner's lock.
// Positions are shared; they are never mutated after decoding.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Positions = append([]*style12.Position(nil), g.Positions...)
	c.Notes = append([]string(nil), g.Notes...)
	c.Communications = append([]record.Communication(nil), g.Communications...)
	if g.Outcome != nil {
		o := *g.Outcome
		c.Outcome = &o
	}
	c.clock = nil
	return &c
}

func (g *Game) touch() {
	if g.clock != nil {
		g.UpdatedAt = g.clock()
	} else {
		g.UpdatedAt = time.Now()
	}
}
