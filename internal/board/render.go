// Package board renders decoded positions as PNG images.
package board

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/park285/cheese-fics/internal/fics/session"
	"github.com/park285/cheese-fics/internal/fics/style12"
)

var ErrNoPosition = errors.New("board: no position")

// MoveHighlight marks the squares of the last move.
type MoveHighlight struct {
	From nchess.Square
	To   nchess.Square
}

type RenderOptions struct {
	Header    string
	Highlight *MoveHighlight
	// Flipped draws the board from Black's side.
	Flipped    bool
	WhiteClock string
	BlackClock string
	Turn       string
}

// Renderer draws a board with a header panel and both clocks.
type Renderer struct {
	squareSize int
	face       font.Face
}

type Option func(*Renderer)

func WithSquareSize(px int) Option {
	return func(r *Renderer) {
		if px >= 16 {
			r.squareSize = px
		}
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{squareSize: 64, face: basicfont.Face7x13}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RenderGame draws the newest position of a game.
func (r *Renderer) RenderGame(ctx context.Context, g *session.Game) ([]byte, error) {
	pos := g.Last()
	if pos == nil {
		return nil, ErrNoPosition
	}
	opts := OptionsFor(pos)
	opts.Header = gameHeader(g, pos)
	return r.RenderPosition(ctx, pos, opts)
}

// OptionsFor derives highlight, orientation and clocks from a snapshot.
func OptionsFor(pos *style12.Position) RenderOptions {
	opts := RenderOptions{
		Highlight:  ParseVerboseMove(pos.VerboseMove, pos.Turn),
		Flipped:    pos.Flipped,
		WhiteClock: formatClock(pos.WhiteClock),
		BlackClock: formatClock(pos.BlackClock),
		Turn:       string(pos.Turn) + " to move",
	}
	if pos.HasMove() {
		opts.Turn = fmt.Sprintf("%s to move, last %s", pos.Turn, pos.PrettyMove)
	}
	return opts
}

func gameHeader(g *session.Game, pos *style12.Position) string {
	white, black := pos.White, pos.Black
	if g.WhiteRating != "" {
		white += " (" + g.WhiteRating + ")"
	}
	if g.BlackRating != "" {
		black += " (" + g.BlackRating + ")"
	}
	header := fmt.Sprintf("#%d %s vs %s", pos.GameID, white, black)
	if g.Outcome != nil {
		header += " " + g.Outcome.Result
	}
	return header
}

func (r *Renderer) RenderPosition(ctx context.Context, pos *style12.Position, opts RenderOptions) ([]byte, error) {
	if pos == nil {
		return nil, ErrNoPosition
	}
	b, err := pos.Board()
	if err != nil {
		return nil, err
	}
	return r.RenderPNG(ctx, b, opts)
}

func (r *Renderer) RenderPNG(ctx context.Context, b *nchess.Board, opts RenderOptions) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}

	sq := r.squareSize
	const (
		sideMargin   = 28
		headerHeight = 30
		clockHeight  = 24
		gap          = 8
		panelRadius  = 8
	)
	boardSize := sq * 8
	topMargin := gap + headerHeight + gap + clockHeight + gap
	bottomMargin := gap + clockHeight + gap + 14

	totalWidth := boardSize + sideMargin*2
	totalHeight := topMargin + boardSize + bottomMargin
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawer := &font.Drawer{Dst: img, Face: r.face}
	header := image.Rect(boardRect.Min.X, gap, boardRect.Max.X, gap+headerHeight)
	drawRoundedPanel(img, header, panelRadius, hudPanelColor)
	title := strings.TrimSpace(opts.Header)
	if title == "" {
		title = "FICS"
	}
	drawCenteredString(drawer, header, truncateWithEllipsis(r.face, title, header.Dx()-16), hudTextPrimary)

	// The side at the top of the board gets the upper clock.
	topClock, bottomClock := "Black "+opts.BlackClock, "White "+opts.WhiteClock
	if opts.Flipped {
		topClock, bottomClock = bottomClock, topClock
	}
	upper := image.Rect(boardRect.Min.X, header.Max.Y+gap, boardRect.Min.X+boardSize/2, header.Max.Y+gap+clockHeight)
	lower := image.Rect(boardRect.Min.X, boardRect.Max.Y+gap, boardRect.Min.X+boardSize/2, boardRect.Max.Y+gap+clockHeight)
	turn := image.Rect(boardRect.Max.X-boardSize/2+gap, upper.Min.Y, boardRect.Max.X, upper.Max.Y)
	drawRoundedPanel(img, upper, panelRadius, hudTurnPanelColor)
	drawRoundedPanel(img, lower, panelRadius, hudTurnPanelColor)
	drawRoundedPanel(img, turn, panelRadius, hudTurnPanelColor)
	drawCenteredString(drawer, upper, topClock, hudTurnTextColor)
	drawCenteredString(drawer, lower, bottomClock, hudTurnTextColor)
	drawCenteredString(drawer, turn, truncateWithEllipsis(r.face, opts.Turn, turn.Dx()-12), hudTurnTextColor)

	v := view{size: sq, origin: origin, flipped: opts.Flipped}
	drawSquares(img, v)
	drawHighlight(img, b, opts.Highlight, v)
	if err := drawPieces(img, b, v); err != nil {
		return nil, err
	}
	drawCoordinates(drawer, v, sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

// ParseVerboseMove reads the server's long move form ("P/e2-e4",
// "N/g1-f3=Q"). Castling is resolved from the side that moved; drops and
// "none" give nil.
func ParseVerboseMove(verbose string, turn style12.Color) *MoveHighlight {
	mover := style12.White
	if turn == style12.White {
		mover = style12.Black
	}
	switch strings.ToLower(verbose) {
	case "o-o":
		if mover == style12.White {
			return &MoveHighlight{From: nchess.E1, To: nchess.G1}
		}
		return &MoveHighlight{From: nchess.E8, To: nchess.G8}
	case "o-o-o":
		if mover == style12.White {
			return &MoveHighlight{From: nchess.E1, To: nchess.C1}
		}
		return &MoveHighlight{From: nchess.E8, To: nchess.C8}
	}
	_, body, ok := strings.Cut(verbose, "/")
	if !ok {
		return nil
	}
	from, to, ok := strings.Cut(body, "-")
	if !ok || len(from) != 2 || len(to) < 2 {
		return nil
	}
	fromSq, ok1 := parseSquare(from)
	toSq, ok2 := parseSquare(to[:2])
	if !ok1 || !ok2 {
		return nil
	}
	return &MoveHighlight{From: fromSq, To: toSq}
}

func parseSquare(s string) (nchess.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return nchess.NoSquare, false
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), true
}

func formatClock(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign, seconds = "-", -seconds
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, seconds/3600, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/60, seconds%60)
}

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	backgroundColor     = color.RGBA{20, 22, 33, 255}
	moveHighlightFill   = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	moveHighlightArrow  = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor   = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)
