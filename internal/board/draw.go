package board

import (
	"image"
	"image/color"
	imagedraw "image/draw"
	"math"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// view maps squares to pixels for one orientation.
type view struct {
	size    int
	origin  image.Point
	flipped bool
}

func (v view) rect(sq nchess.Square) image.Rectangle {
	col, row := int(sq.File()), 7-int(sq.Rank())
	if v.flipped {
		col, row = 7-col, 7-row
	}
	x := v.origin.X + col*v.size
	y := v.origin.Y + row*v.size
	return image.Rect(x, y, x+v.size, y+v.size)
}

func (v view) center(sq nchess.Square) image.Point {
	r := v.rect(sq)
	return image.Pt(r.Min.X+v.size/2, r.Min.Y+v.size/2)
}

func allSquares() []nchess.Square {
	out := make([]nchess.Square, 0, 64)
	for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
		for file := nchess.FileA; file <= nchess.FileH; file++ {
			out = append(out, nchess.NewSquare(file, rank))
		}
	}
	return out
}

func drawSquares(dst imagedraw.Image, v view) {
	for _, sq := range allSquares() {
		imagedraw.Draw(dst, v.rect(sq), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(dst imagedraw.Image, b *nchess.Board, v view) error {
	for sq, piece := range b.SquareMap() {
		if piece == nchess.NoPiece {
			continue
		}
		img, err := renderPieceImage(piece, v.size)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, v.rect(sq), img, image.Point{}, imagedraw.Over)
	}
	return nil
}

// drawHighlight tints both squares and adds an arrow. Knight moves get no
// arrow.
func drawHighlight(img *image.RGBA, b *nchess.Board, h *MoveHighlight, v view) {
	if h == nil || h.From == h.To {
		return
	}
	imagedraw.Draw(img, v.rect(h.From), image.NewUniform(moveHighlightFill), image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, v.rect(h.To), image.NewUniform(moveHighlightFill), image.Point{}, imagedraw.Over)
	if p := b.Piece(h.To); p != nchess.NoPiece && p.Type() == nchess.Knight {
		return
	}
	drawArrow(img, v.center(h.From), v.center(h.To), v.size, moveHighlightArrow)
}

func drawCoordinates(drawer *font.Drawer, v view, margin int) {
	ascent := drawer.Face.Metrics().Ascent.Ceil()
	drawer.Src = image.NewUniform(coordinateTextColor)
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		r := v.rect(nchess.NewSquare(file, nchess.Rank1))
		if v.flipped {
			r = v.rect(nchess.NewSquare(file, nchess.Rank8))
		}
		drawCenteredText(drawer, file.String(), r.Min.X+v.size/2, v.origin.Y+8*v.size+ascent)
	}
	for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
		r := v.rect(nchess.NewSquare(nchess.FileA, rank))
		if v.flipped {
			r = v.rect(nchess.NewSquare(nchess.FileH, rank))
		}
		drawCenteredText(drawer, rank.String(), v.origin.X-margin/2, r.Min.Y+v.size/2+ascent/2)
	}
}

func drawArrow(img *image.RGBA, start, end image.Point, squareSize int, clr color.Color) {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	baseLength := length - float64(squareSize)*0.45
	if baseLength < float64(squareSize)*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := float64(squareSize) * 0.1
	headWidth := float64(squareSize) * 0.32

	baseX := float64(start.X) + dirX*baseLength
	baseY := float64(start.Y) + dirY*baseLength

	fillQuad(img,
		pointF{float64(start.X) - perpX*halfWidth, float64(start.Y) - perpY*halfWidth},
		pointF{float64(start.X) + perpX*halfWidth, float64(start.Y) + perpY*halfWidth},
		pointF{baseX + perpX*halfWidth, baseY + perpY*halfWidth},
		pointF{baseX - perpX*halfWidth, baseY - perpY*halfWidth},
		clr)
	fillTriangleF(img,
		pointF{float64(end.X), float64(end.Y)},
		pointF{baseX - perpX*headWidth/2, baseY - perpY*headWidth/2},
		pointF{baseX + perpX*headWidth/2, baseY + perpY*headWidth/2},
		clr)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	maxRadius := min(rect.Dx()/2, rect.Dy()/2)
	radius = max(0, min(radius, maxRadius))
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	left := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	imagedraw.Draw(img, left, fill, image.Point{}, imagedraw.Over)
	right := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	imagedraw.Draw(img, right, fill, image.Point{}, imagedraw.Over)

	// Each corner disc only fills the quarter outside the rectangles above.
	corners := []struct {
		center image.Point
		sx, sy int
	}{
		{image.Pt(rect.Min.X+radius, rect.Min.Y+radius), -1, -1},
		{image.Pt(rect.Max.X-radius-1, rect.Min.Y+radius), 1, -1},
		{image.Pt(rect.Min.X+radius, rect.Max.Y-radius-1), -1, 1},
		{image.Pt(rect.Max.X-radius-1, rect.Max.Y-radius-1), 1, 1},
	}
	for _, c := range corners {
		drawQuarterDisc(img, c.center, radius, c.sx, c.sy, clr)
	}
}

func drawQuarterDisc(img *image.RGBA, center image.Point, radius, sx, sy int, clr color.Color) {
	r2 := radius * radius
	for y := 1; y <= radius; y++ {
		for x := 1; x <= radius; x++ {
			if x*x+y*y > r2 {
				continue
			}
			blendPixel(img, center.X+sx*x, center.Y+sy*y, clr)
		}
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := max(rect.Min.X, rect.Min.X+(rect.Dx()-width)/2)
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	d := img.RGBAAt(x, y)
	inv := 65535 - sa
	// Premultiplied source over premultiplied destination.
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((sr + uint32(d.R)*0x101*inv/65535) >> 8),
		G: uint8((sg + uint32(d.G)*0x101*inv/65535) >> 8),
		B: uint8((sb + uint32(d.B)*0x101*inv/65535) >> 8),
		A: uint8((sa + uint32(d.A)*0x101*inv/65535) >> 8),
	})
}

type pointF struct {
	X float64
	Y float64
}

func fillQuad(img *image.RGBA, p0, p1, p2, p3 pointF, clr color.Color) {
	fillTriangleF(img, p0, p1, p2, clr)
	fillTriangleF(img, p0, p2, p3, clr)
}

func fillTriangleF(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangle(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func pointInTriangle(x, y float64, a, b, c pointF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}
