package gateway

import (
	"fmt"

	"github.com/park285/cheese-fics/internal/fics/record"
	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/fics/style12"
	"github.com/park285/cheese-fics/pkg/ficsdto"
)

func summarize(g *session.Game) ficsdto.GameSummary {
	out := ficsdto.GameSummary{
		ID:          g.ID.String(),
		Slot:        g.Slot,
		Active:      !g.Finished(),
		WhiteRating: g.WhiteRating,
		BlackRating: g.BlackRating,
		Relation:    g.Relation.String(),
		MoveCount:   len(g.Positions),
		UpdatedAt:   g.UpdatedAt,
	}
	if last := g.Last(); last != nil {
		out.White, out.Black = last.White, last.Black
	}
	if g.Outcome != nil {
		out.Result = g.Outcome.Result
		out.Description = g.Outcome.Description
	}
	return out
}

func detail(g *session.Game) ficsdto.GameDetail {
	out := ficsdto.GameDetail{
		GameSummary: summarize(g),
		Positions:   make([]ficsdto.Position, 0, len(g.Positions)),
		Notes:       g.Notes,
		Comments:    communications(g.Communications),
		CreatedAt:   g.CreatedAt,
	}
	for _, p := range g.Positions {
		out.Positions = append(out.Positions, position(p))
	}
	return out
}

func position(p *style12.Position) ficsdto.Position {
	out := ficsdto.Position{
		FEN:        p.FEN(),
		Turn:       string(p.Turn),
		MoveNumber: p.MoveNumber,
		WhiteClock: p.WhiteClock,
		BlackClock: p.BlackClock,
		Flipped:    p.Flipped,
	}
	if p.HasMove() {
		out.LastMove = p.PrettyMove
	}
	return out
}

func communications(in []record.Communication) []ficsdto.Communication {
	out := make([]ficsdto.Communication, 0, len(in))
	for _, c := range in {
		out = append(out, ficsdto.Communication{
			Kind:   string(c.Kind),
			ID:     c.ID,
			Handle: c.Handle,
			Text:   c.Text,
			At:     c.At,
		})
	}
	return out
}

func seek(s record.SeekInfo) ficsdto.Seek {
	return ficsdto.Seek{
		ID:          s.ID,
		Handle:      s.Handle,
		Rating:      s.Rating,
		Minutes:     s.Time,
		Increment:   s.Increment,
		Rated:       s.Rated,
		Type:        s.Type,
		Color:       s.Color,
		RatingRange: fmt.Sprintf("%d-%d", s.RatingMin, s.RatingMax),
	}
}
