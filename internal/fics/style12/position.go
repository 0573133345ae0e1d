package style12

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Relation is the server's view of how the session relates to a game.
type Relation int

const (
	RelationUnknown             Relation = -99
	RelationIsolated            Relation = -3
	RelationObservingExamined   Relation = -2
	RelationPlayingOpponentMove Relation = -1
	RelationObserving           Relation = 0
	RelationPlayingMyMove       Relation = 1
	RelationExamining           Relation = 2
)

func (r Relation) String() string {
	switch r {
	case RelationIsolated:
		return "isolated"
	case RelationObservingExamined:
		return "observing_examined"
	case RelationPlayingOpponentMove:
		return "playing_opponent_move"
	case RelationObserving:
		return "observing"
	case RelationPlayingMyMove:
		return "playing_my_move"
	case RelationExamining:
		return "examining"
	default:
		return "unknown"
	}
}

// IsPlaying reports whether the session is one of the two players.
func (r Relation) IsPlaying() bool {
	return r == RelationPlayingMyMove || r == RelationPlayingOpponentMove
}

// Color identifies the side to move.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

const minFields = 30

var (
	ErrShortLine  = errors.New("style12: not enough fields")
	ErrBadRank    = errors.New("style12: malformed rank")
	ErrBadColor   = errors.New("style12: malformed side to move")
	ErrBadInteger = errors.New("style12: malformed integer field")
)

// Position is one decoded <12> board snapshot.
type Position struct {
	Raw string `json:"raw"`

	// Ranks holds the eight rank strings from rank 8 down to rank 1, '-' for empty squares.
	Ranks [8]string `json:"ranks"`

	Turn           Color `json:"turn"`
	DoublePawnFile int   `json:"double_pawn_file"`

	WhiteCastleShort bool `json:"white_castle_short"`
	WhiteCastleLong  bool `json:"white_castle_long"`
	BlackCastleShort bool `json:"black_castle_short"`
	BlackCastleLong  bool `json:"black_castle_long"`

	HalfmoveClock int      `json:"halfmove_clock"`
	GameID        int      `json:"game_id"`
	White         string   `json:"white"`
	Black         string   `json:"black"`
	Relation      Relation `json:"relation"`

	InitialMinutes   int `json:"initial_minutes"`
	IncrementSeconds int `json:"increment_seconds"`
	WhiteStrength    int `json:"white_strength"`
	BlackStrength    int `json:"black_strength"`
	WhiteClock       int `json:"white_clock"`
	BlackClock       int `json:"black_clock"`
	MoveNumber       int `json:"move_number"`

	VerboseMove string `json:"verbose_move"`
	MoveTime    string `json:"move_time"`
	PrettyMove  string `json:"pretty_move"`

	Flipped      bool `json:"flipped"`
	ClockTicking bool `json:"clock_ticking"`
	LagMillis    int  `json:"lag_millis"`
}

// Decode parses the payload of a <12> line. The leading "<12> " tag is optional.
func Decode(line string) (*Position, error) {
	line = strings.TrimRight(line, "\r\n")
	body := strings.TrimPrefix(strings.TrimSpace(line), "<12>")
	f := strings.Fields(body)
	if len(f) < minFields {
		return nil, fmt.Errorf("%w: got %d", ErrShortLine, len(f))
	}

	p := &Position{Raw: line}
	for i := 0; i < 8; i++ {
		if len(f[i]) != 8 {
			return nil, fmt.Errorf("%w: %q", ErrBadRank, f[i])
		}
		p.Ranks[i] = f[i]
	}
	switch f[8] {
	case "W":
		p.Turn = White
	case "B":
		p.Turn = Black
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadColor, f[8])
	}

	ints := make([]int, 0, 16)
	for _, idx := range []int{9, 10, 11, 12, 13, 14, 15, 18, 19, 20, 21, 22, 23, 24, 25} {
		n, err := strconv.Atoi(f[idx])
		if err != nil {
			return nil, fmt.Errorf("%w: field %d %q", ErrBadInteger, idx, f[idx])
		}
		ints = append(ints, n)
	}
	p.DoublePawnFile = ints[0]
	p.WhiteCastleShort = ints[1] == 1
	p.WhiteCastleLong = ints[2] == 1
	p.BlackCastleShort = ints[3] == 1
	p.BlackCastleLong = ints[4] == 1
	p.HalfmoveClock = ints[5]
	p.GameID = ints[6]
	p.White = f[16]
	p.Black = f[17]
	p.Relation = Relation(ints[7])
	p.InitialMinutes = ints[8]
	p.IncrementSeconds = ints[9]
	p.WhiteStrength = ints[10]
	p.BlackStrength = ints[11]
	p.WhiteClock = ints[12]
	p.BlackClock = ints[13]
	p.MoveNumber = ints[14]
	p.VerboseMove = f[26]
	p.MoveTime = f[27]
	p.PrettyMove = f[28]
	p.Flipped = f[29] == "1"
	if len(f) > 30 {
		p.ClockTicking = f[30] == "1"
	}
	if len(f) > 31 {
		// lag is informational only
		if n, err := strconv.Atoi(f[31]); err == nil {
			p.LagMillis = n
		}
	}
	return p, nil
}

// HasMove reports whether the snapshot carries a move (the initial position uses "none").
func (p *Position) HasMove() bool {
	return p != nil && p.PrettyMove != "" && p.PrettyMove != "none"
}

// FEN renders the snapshot in Forsyth-Edwards notation.
func (p *Position) FEN() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for i, rank := range p.Ranks {
		empty := 0
		for _, c := range rank {
			if c == '-' {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteRune(c)
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if i < 7 {
			b.WriteByte('/')
		}
	}

	if p.Turn == Black {
		b.WriteString(" b ")
	} else {
		b.WriteString(" w ")
	}

	castle := ""
	if p.WhiteCastleShort {
		castle += "K"
	}
	if p.WhiteCastleLong {
		castle += "Q"
	}
	if p.BlackCastleShort {
		castle += "k"
	}
	if p.BlackCastleLong {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}
	b.WriteString(castle)

	b.WriteByte(' ')
	b.WriteString(p.enPassant())

	move := p.MoveNumber
	if move < 1 {
		move = 1
	}
	fmt.Fprintf(&b, " %d %d", p.HalfmoveClock, move)
	return b.String()
}

func (p *Position) enPassant() string {
	if p.DoublePawnFile < 0 || p.DoublePawnFile > 7 {
		return "-"
	}
	file := string(rune('a' + p.DoublePawnFile))
	// the pawn that just moved belongs to the side not on move
	if p.Turn == White {
		return file + "6"
	}
	return file + "3"
}

// Board builds a chess board for the snapshot. Variant positions that the chess
// library rejects return an error.
func (p *Position) Board() (*nchess.Board, error) {
	if p == nil {
		return nil, fmt.Errorf("nil position")
	}
	opt, err := nchess.FEN(p.FEN())
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	game := nchess.NewGame(opt)
	return game.Position().Board(), nil
}
