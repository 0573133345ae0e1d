package style12

import (
	"errors"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

const afterE4 = "<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 7 Newton Einstein 1 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0 1 0"

func TestDecode_Fields(t *testing.T) {
	p, err := Decode(afterE4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.GameID != 7 {
		t.Fatalf("game id: got %d", p.GameID)
	}
	if p.White != "Newton" || p.Black != "Einstein" {
		t.Fatalf("players: %q vs %q", p.White, p.Black)
	}
	if p.Turn != Black || p.DoublePawnFile != 4 {
		t.Fatalf("turn=%s dpp=%d", p.Turn, p.DoublePawnFile)
	}
	if p.Relation != RelationPlayingMyMove || !p.Relation.IsPlaying() {
		t.Fatalf("relation: %v", p.Relation)
	}
	if p.InitialMinutes != 2 || p.IncrementSeconds != 12 {
		t.Fatalf("time control: %d %d", p.InitialMinutes, p.IncrementSeconds)
	}
	if p.WhiteClock != 119 || p.BlackClock != 122 {
		t.Fatalf("clocks: %d %d", p.WhiteClock, p.BlackClock)
	}
	if p.PrettyMove != "e4" || !p.HasMove() {
		t.Fatalf("pretty move: %q", p.PrettyMove)
	}
	if !p.ClockTicking || p.Flipped {
		t.Fatalf("flags: ticking=%v flipped=%v", p.ClockTicking, p.Flipped)
	}
}

func TestDecode_FEN(t *testing.T) {
	p, err := Decode(afterE4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := p.FEN(); got != want {
		t.Fatalf("FEN:\n got %s\nwant %s", got, want)
	}
	board, err := p.Board()
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if pc := board.Piece(nchess.E4); pc != nchess.WhitePawn {
		t.Fatalf("expected white pawn on e4, got %v", pc)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		line string
		want error
	}{
		{"short", "<12> rnbqkbnr pppppppp W", ErrShortLine},
		{"rank", "<12> rnbqkbn pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 7 a b 1 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0", ErrBadRank},
		{"color", "<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR X 4 1 1 1 1 0 7 a b 1 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0", ErrBadColor},
		{"integer", "<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B x 1 1 1 1 0 7 a b 1 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0", ErrBadInteger},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.line); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecode_NoMoveAndOptionalTail(t *testing.T) {
	line := "<12> rnbqkbnr pppppppp -------- -------- -------- -------- PPPPPPPP RNBQKBNR W -1 1 1 1 1 0 12 GuestA GuestB 2 0 0 39 39 0 0 1 none (0:00) none 0"
	p, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.HasMove() {
		t.Fatalf("expected no move")
	}
	if p.Relation != RelationExamining {
		t.Fatalf("relation: %v", p.Relation)
	}
	if p.ClockTicking || p.LagMillis != 0 {
		t.Fatalf("optional tail should default to zero values")
	}
	if got := p.FEN(); got != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1" {
		t.Fatalf("FEN: %s", got)
	}
}
