package atlas

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes a single character's placement and metrics within the sheet
type Glyph struct {
	// Pixel coordinates of the glyph in the sheet (top-left origin)
	X, Y float32
	// Glyph bitmap size in pixels
	Width, Height float32
	// Bearing (offset from baseline) in pixels
	BearingX, BearingY float32
	Advance            int
}

// Glyphs is an alpha sheet of baked printable ASCII glyphs.
type Glyphs struct {
	Sheet *image.Alpha
	Chars map[rune]Glyph
}

// Width returns the sheet width in pixels.
func (g *Glyphs) Width() int { return g.Sheet.Rect.Dx() }

// Height returns the sheet height in pixels.
func (g *Glyphs) Height() int { return g.Sheet.Rect.Dy() }

// DefaultGlyphs bakes the Go Mono font shipped with x/image.
func DefaultGlyphs(pixels int) (*Glyphs, error) {
	return BakeGlyphs(gomono.TTF, pixels)
}

// BakeGlyphs rasterises ASCII 32..126 of a TrueType font into a sheet
// using a simple row packer.
func BakeGlyphs(ttf []byte, pixels int) (*Glyphs, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	const (
		sheetW  = 256
		padding = 1
	)

	// First pass: measure to size the sheet
	rowH := 0
	for r := rune(32); r <= 126; r++ {
		if dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r); ok {
			rowH = max(rowH, dr.Dy())
		}
	}
	if rowH == 0 {
		rowH = pixels
	}
	x, rows := 0, 1
	for r := rune(32); r <= 126; r++ {
		dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		if x+dr.Dx()+padding > sheetW {
			rows++
			x = 0
		}
		x += dr.Dx() + padding
	}

	g := &Glyphs{
		Sheet: image.NewAlpha(image.Rect(0, 0, sheetW, rows*(rowH+padding))),
		Chars: make(map[rune]Glyph),
	}

	// Second pass: render each glyph into the sheet and record metrics
	x, y := 0, 0
	for r := rune(32); r <= 126; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		if x+gw+padding > sheetW {
			x = 0
			y += rowH + padding
		}
		if gw > 0 && gh > 0 && mask != nil {
			draw.Draw(g.Sheet, image.Rect(x, y, x+gw, y+gh), mask, maskp, draw.Src)
		}
		g.Chars[r] = Glyph{
			X:        float32(x),
			Y:        float32(y),
			Width:    float32(gw),
			Height:   float32(gh),
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  int(math.Round(float64(advance) / 64.0)),
		}
		x += gw + padding
	}
	return g, nil
}

// Layout returns two triangles per character as (x, y, u, v) floats in
// screen pixels, starting at the baseline point (x, y).
func (g *Glyphs) Layout(text string, x, y, scale float32) []float32 {
	sw, sh := float32(g.Width()), float32(g.Height())
	vertices := make([]float32, 0, len(text)*6*4)
	for _, r := range text {
		fc, ok := g.Chars[r]
		if !ok {
			fc = g.Chars[' ']
		}
		if fc.Width > 0 && fc.Height > 0 {
			xPos := x + fc.BearingX*scale
			yPos := y - fc.BearingY*scale
			w, h := fc.Width*scale, fc.Height*scale
			u0, v0 := fc.X/sw, fc.Y/sh
			u1, v1 := (fc.X+fc.Width)/sw, (fc.Y+fc.Height)/sh
			vertices = append(vertices,
				xPos, yPos+h, u0, v1,
				xPos, yPos, u0, v0,
				xPos+w, yPos, u1, v0,
				xPos, yPos+h, u0, v1,
				xPos+w, yPos, u1, v0,
				xPos+w, yPos+h, u1, v1,
			)
		}
		x += float32(fc.Advance) * scale
	}
	return vertices
}

// Measure returns the advance width of text in pixels.
func (g *Glyphs) Measure(text string, scale float32) float32 {
	var w float32
	for _, r := range text {
		fc, ok := g.Chars[r]
		if !ok {
			fc = g.Chars[' ']
		}
		w += float32(fc.Advance) * scale
	}
	return w
}
