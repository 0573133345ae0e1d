package board

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

const afterE4 = "<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 7 alice bob 0 2 12 39 39 119 120 1 P/e2-e4 (0:01) e4 0 1 0"

func decode(t *testing.T, line string) *style12.Position {
	t.Helper()
	p, err := style12.Decode(line)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p
}

func TestRenderGame_PNG(t *testing.T) {
	st := session.NewStore()
	g := st.CreateGame(decode(t, afterE4), "1500", "1600")

	r := NewRenderer(WithSquareSize(32))
	out, err := r.RenderGame(context.Background(), g)
	if err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if w := img.Bounds().Dx(); w != 32*8+2*28 {
		t.Fatalf("width=%d", w)
	}
	if img.Bounds().Dy() <= 32*8 {
		t.Fatalf("height=%d", img.Bounds().Dy())
	}
}

func TestRenderGame_NoPosition(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderGame(context.Background(), &session.Game{}); !errors.Is(err, ErrNoPosition) {
		t.Fatalf("err=%v", err)
	}
}

func TestRenderPNG_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b, err := decode(t, afterE4).Board()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewRenderer().RenderPNG(ctx, b, RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseVerboseMove(t *testing.T) {
	cases := []struct {
		verbose  string
		turn     style12.Color
		from, to nchess.Square
		nilWant  bool
	}{
		{verbose: "P/e2-e4", turn: style12.Black, from: nchess.E2, to: nchess.E4},
		{verbose: "P/e7-e8=Q", turn: style12.White, from: nchess.E7, to: nchess.E8},
		{verbose: "o-o", turn: style12.Black, from: nchess.E1, to: nchess.G1},
		{verbose: "o-o-o", turn: style12.White, from: nchess.E8, to: nchess.C8},
		{verbose: "none", turn: style12.White, nilWant: true},
		{verbose: "P/@@-e4", turn: style12.White, nilWant: true},
	}
	for _, c := range cases {
		h := ParseVerboseMove(c.verbose, c.turn)
		if c.nilWant {
			if h != nil {
				t.Errorf("%q: want nil, got %+v", c.verbose, h)
			}
			continue
		}
		if h == nil || h.From != c.from || h.To != c.to {
			t.Errorf("%q: got %+v want %v-%v", c.verbose, h, c.from, c.to)
		}
	}
}

func TestView_Flipped(t *testing.T) {
	v := view{size: 10, origin: image.Pt(0, 0)}
	if r := v.rect(nchess.A1); r.Min != image.Pt(0, 70) {
		t.Fatalf("a1 normal at %v", r.Min)
	}
	v.flipped = true
	if r := v.rect(nchess.A1); r.Min != image.Pt(70, 0) {
		t.Fatalf("a1 flipped at %v", r.Min)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{119: "1:59", 0: "0:00", -5: "-0:05", 3725: "1:02:05"}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Errorf("formatClock(%d)=%q want %q", in, got, want)
		}
	}
}
