// Package ui provides the system tray presenter.
// This file contains the generated tray glyphs.
package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/yllada/nordvpn-tray/common"
)

// Glyph describes one tray icon.
type Glyph struct {
	Size   int
	Fill   color.RGBA
	Edge   color.RGBA
	Symbol color.RGBA
	// Locked draws a closed ring; otherwise a struck-through ring is drawn.
	Locked bool
}

// ConnectedGlyph is the icon shown while the tunnel is up.
func ConnectedGlyph() Glyph {
	return Glyph{
		Size:   common.TrayIconSize,
		Fill:   color.RGBA{62, 95, 255, 255},
		Edge:   color.RGBA{120, 150, 255, 255},
		Symbol: color.RGBA{255, 255, 255, 255},
		Locked: true,
	}
}

// DisconnectedGlyph is the icon shown otherwise.
func DisconnectedGlyph() Glyph {
	return Glyph{
		Size:   common.TrayIconSize,
		Fill:   color.RGBA{97, 97, 97, 255},
		Edge:   color.RGBA{158, 158, 158, 255},
		Symbol: color.RGBA{230, 230, 230, 255},
	}
}

// Render encodes the glyph as PNG.
func (g Glyph) Render() []byte {
	img := image.NewRGBA(image.Rect(0, 0, g.Size, g.Size))
	g.drawShield(img)
	g.drawRing(img)
	if !g.Locked {
		g.drawStrike(img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		common.LogError("Failed to encode tray icon: %v", err)
		return nil
	}
	return buf.Bytes()
}

// inShield reports whether (x, y) lies inside a shield that is straight-sided
// in its upper half and tapers to a point at the bottom.
func (g Glyph) inShield(x, y float64) bool {
	size := float64(g.Size)
	top, bottom := 1.0, size-1.5
	rel := (y - top) / (bottom - top)
	if rel < 0 || rel > 1 {
		return false
	}

	half := size/2 - 2
	if rel > 0.45 {
		taper := (rel - 0.45) / 0.55
		half *= 1 - taper*taper
	}
	return math.Abs(x-size/2) <= half
}

func (g Glyph) drawShield(img *image.RGBA) {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if !g.inShield(fx, fy) {
				continue
			}
			edge := !g.inShield(fx-1, fy) || !g.inShield(fx+1, fy) ||
				!g.inShield(fx, fy-1) || !g.inShield(fx, fy+1)
			if edge {
				img.Set(x, y, g.Edge)
			} else {
				img.Set(x, y, g.Fill)
			}
		}
	}
}

func (g Glyph) drawRing(img *image.RGBA) {
	c := float64(g.Size) * 0.45
	outer := float64(g.Size) * 0.22
	inner := outer - 1.6
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			d := math.Hypot(float64(x)+0.5-float64(g.Size)/2, float64(y)+0.5-c)
			if d <= outer && d >= inner {
				img.Set(x, y, g.Symbol)
			}
		}
	}
}

func (g Glyph) drawStrike(img *image.RGBA) {
	lo := int(float64(g.Size) * 0.25)
	hi := g.Size - lo
	for i := lo; i < hi; i++ {
		img.Set(i, i-1, g.Symbol)
		img.Set(i, i, g.Symbol)
	}
}
