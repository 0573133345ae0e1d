// Package archive persists finished games and conversation tails.
//
// A finished session.Game is condensed into a Record: SAN move list replayed
// through the chess library, PGN text and ECO classification. Records go to
// Redis for quick lookup and, when configured, to Postgres.
package archive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"github.com/google/uuid"

	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

var (
	ErrUnfinished  = errors.New("archive: game has no outcome")
	ErrNoPositions = errors.New("archive: game has no positions")
)

// Comment is a kibitz or whisper kept with the game.
type Comment struct {
	Kind   string `json:"kind"`
	Handle string `json:"handle"`
	Text   string `json:"text"`
}

// Record is the archived form of a finished game.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Slot        int       `json:"slot"`
	White       string    `json:"white"`
	Black       string    `json:"black"`
	WhiteRating string    `json:"white_rating,omitempty"`
	BlackRating string    `json:"black_rating,omitempty"`

	InitialMinutes   int `json:"initial_minutes"`
	IncrementSeconds int `json:"increment_seconds"`

	Result      string `json:"result"`
	Description string `json:"description"`

	// StartFEN is set when the game was joined after the first move.
	StartFEN string   `json:"start_fen,omitempty"`
	FinalFEN string   `json:"final_fen"`
	Moves    []string `json:"moves"`
	ECO      string   `json:"eco,omitempty"`
	Opening  string   `json:"opening,omitempty"`
	PGN      string   `json:"pgn"`

	Notes    []string  `json:"notes,omitempty"`
	Comments []Comment `json:"comments,omitempty"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration is the wall time between the first and the last update.
func (r *Record) Duration() time.Duration {
	d := r.EndedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Summarize condenses a finished game.
func Summarize(g *session.Game) (*Record, error) {
	if g == nil || !g.Finished() {
		return nil, ErrUnfinished
	}
	last := g.Last()
	if last == nil {
		return nil, ErrNoPositions
	}

	r := &Record{
		ID:               g.ID,
		Slot:             g.Slot,
		White:            last.White,
		Black:            last.Black,
		WhiteRating:      g.WhiteRating,
		BlackRating:      g.BlackRating,
		InitialMinutes:   last.InitialMinutes,
		IncrementSeconds: last.IncrementSeconds,
		Result:           g.Outcome.Result,
		Description:      g.Outcome.Description,
		FinalFEN:         last.FEN(),
		Notes:            append([]string(nil), g.Notes...),
		StartedAt:        g.CreatedAt,
		EndedAt:          g.UpdatedAt,
	}
	for _, c := range g.Communications {
		r.Comments = append(r.Comments, Comment{Kind: string(c.Kind), Handle: c.Handle, Text: c.Text})
	}

	base, moves := moveLine(g.Positions)
	if base.HasMove() || base.MoveNumber > 1 {
		r.StartFEN = base.FEN()
	}
	r.Moves = moves
	r.ECO, r.Opening = classify(r.StartFEN, moves)
	r.PGN = buildPGN(r)
	return r, nil
}

// ply counts half-moves played before the snapshot's side to move.
func ply(p *style12.Position) int {
	n := 2 * (p.MoveNumber - 1)
	if p.Turn == style12.Black {
		n++
	}
	return n
}

// moveLine rebuilds the contiguous move sequence ending at the last snapshot.
// Repeated snapshots are skipped, takebacks truncate and a gap restarts the
// line from the snapshot after it.
func moveLine(positions []*style12.Position) (*style12.Position, []string) {
	base := positions[0]
	var moves []string
	for _, p := range positions[1:] {
		n := ply(p) - ply(base)
		switch {
		case n <= 0:
			base, moves = p, nil
		case n <= len(moves):
			moves = moves[:n-1]
			moves = append(moves, p.PrettyMove)
		case n == len(moves)+1 && p.HasMove():
			moves = append(moves, p.PrettyMove)
		default:
			base, moves = p, nil
		}
	}
	return base, moves
}

// classify replays the moves and looks up the ECO opening. Games that do not
// start from the initial position or do not replay are left unclassified.
func classify(startFEN string, moves []string) (code, name string) {
	if startFEN != "" || len(moves) == 0 {
		return "", ""
	}
	game := nchess.NewGame()
	for _, mv := range moves {
		if err := game.PushNotationMove(sanitizeSAN(mv), nchess.AlgebraicNotation{}, nil); err != nil {
			return "", ""
		}
	}
	book := opening.NewBookECO()
	o := book.Find(game.Moves())
	if o == nil {
		return "", ""
	}
	return o.Code(), o.Title()
}

// sanitizeSAN maps the server's castling spelling to SAN.
func sanitizeSAN(mv string) string {
	switch {
	case strings.HasPrefix(mv, "o-o-o"):
		return "O-O-O" + mv[len("o-o-o"):]
	case strings.HasPrefix(mv, "o-o"):
		return "O-O" + mv[len("o-o"):]
	}
	return mv
}

func mapResultToPGN(result string) string {
	switch strings.TrimSpace(result) {
	case "1-0", "0-1", "1/2-1/2":
		return result
	default:
		return "*"
	}
}

func buildPGN(r *Record) string {
	var b strings.Builder
	date := r.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	pgnResult := mapResultToPGN(r.Result)

	b.WriteString("[Event \"FICS game\"]\n")
	b.WriteString("[Site \"freechess.org\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitizePGN(r.White)))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", sanitizePGN(r.Black)))
	if rating := strings.TrimSpace(r.WhiteRating); rating != "" {
		b.WriteString(fmt.Sprintf("[WhiteElo \"%s\"]\n", sanitizePGN(rating)))
	}
	if rating := strings.TrimSpace(r.BlackRating); rating != "" {
		b.WriteString(fmt.Sprintf("[BlackElo \"%s\"]\n", sanitizePGN(rating)))
	}
	b.WriteString(fmt.Sprintf("[TimeControl \"%d+%d\"]\n", r.InitialMinutes*60, r.IncrementSeconds))
	if r.ECO != "" {
		b.WriteString(fmt.Sprintf("[ECO \"%s\"]\n", r.ECO))
	}
	if r.StartFEN != "" {
		b.WriteString("[SetUp \"1\"]\n")
		b.WriteString(fmt.Sprintf("[FEN \"%s\"]\n", r.StartFEN))
	}
	if d := strings.TrimSpace(r.Description); d != "" {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", sanitizePGN(d)))
	}
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", pgnResult))

	moveNo, black := 1, false
	if r.StartFEN != "" {
		if c, err := fenClockOf(r.StartFEN); err == nil {
			moveNo, black = c.moveNo, c.black
		}
	}
	for i, mv := range r.Moves {
		switch {
		case !black:
			b.WriteString(fmt.Sprintf("%d. ", moveNo))
		case i == 0:
			b.WriteString(fmt.Sprintf("%d... ", moveNo))
		}
		b.WriteString(strings.TrimSpace(sanitizeSAN(mv)))
		b.WriteString(" ")
		if black {
			moveNo++
		}
		black = !black
	}
	b.WriteString(pgnResult)
	return b.String()
}

type fenClock struct {
	moveNo int
	black  bool
}

// fenClockOf reads the side to move and fullmove number of a FEN.
func fenClockOf(fen string) (fenClock, error) {
	f := strings.Fields(fen)
	if len(f) < 6 {
		return fenClock{}, fmt.Errorf("short fen %q", fen)
	}
	n, err := strconv.Atoi(f[5])
	if err != nil {
		return fenClock{}, fmt.Errorf("fen move number: %w", err)
	}
	return fenClock{moveNo: n, black: f[1] == "b"}, nil
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
