package fileio

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"flowdraw/internal/diagram"
)

const (
	pngPadding  = 16.0
	pngFontSize = 12.0
	arrowSize   = 8.0
	arrowAngle  = 0.5

	// MaxPNGSide bounds either image dimension.
	MaxPNGSide = 16384
)

// ExportPNG rasterizes the whole diagram at scale 1 using the active theme.
func ExportPNG(path string, d *diagram.Diagram) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, d); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

func WritePNG(w io.Writer, d *diagram.Diagram) error {
	dc, err := renderPNG(d)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func renderPNG(d *diagram.Diagram) (*gg.Context, error) {
	if d == nil || len(d.Nodes) == 0 {
		return nil, ErrNothingToExport
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range d.Nodes {
		x0, y0, x1, y1 := n.Bounds()
		minX, minY = math.Min(minX, x0), math.Min(minY, y0)
		maxX, maxY = math.Max(maxX, x1), math.Max(maxY, y1)
	}
	minX -= pngPadding
	minY -= pngPadding
	w, h := math.Ceil(maxX-minX+pngPadding), math.Ceil(maxY-minY+pngPadding)
	if !(w <= MaxPNGSide && h <= MaxPNGSide) {
		return nil, fmt.Errorf("%.0fx%.0f pixels, limit %d: %w", w, h, MaxPNGSide, ErrExportTooLarge)
	}
	width, height := int(w), int(h)

	theme, ok := d.Themes[d.Settings.Theme]
	if !ok {
		theme = diagram.BuiltinThemes()[diagram.DefaultThemeName]
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(parseColor(theme.Colors.Background, color.White, 1))
	dc.Clear()
	dc.Translate(-minX, -minY)

	nodes := make(map[string]diagram.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes[n.ID] = n
	}

	// Edges first so boxes are painted over their ends.
	for _, e := range d.Edges {
		src, ok1 := nodes[e.Source]
		dst, ok2 := nodes[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		drawEdgePNG(dc, e, src, dst, theme)
	}

	faces := make(map[float64]font.Face)
	for _, n := range d.Nodes {
		size := n.Style.FontSize
		if size <= 0 {
			size = pngFontSize
		}
		face, ok := faces[size]
		if !ok {
			face = truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
			faces[size] = face
		}
		dc.SetFontFace(face)
		drawNodePNG(dc, n, theme)
	}
	return dc, nil
}

func drawNodePNG(dc *gg.Context, n diagram.Node, theme diagram.Theme) {
	style := n.Style
	alpha := style.OpacityOrDefault()
	x0, y0, _, _ := n.Bounds()

	dc.Push()
	if style.Rotation != 0 {
		dc.RotateAbout(gg.Radians(style.Rotation), n.X, n.Y)
	}
	shape := style.ShapeOrDefault()
	switch shape {
	case diagram.ShapeEllipse:
		dc.DrawEllipse(n.X, n.Y, n.Width/2, n.Height/2)
	case diagram.ShapeRhombus:
		dc.MoveTo(n.X, y0)
		dc.LineTo(x0+n.Width, n.Y)
		dc.LineTo(n.X, y0+n.Height)
		dc.LineTo(x0, n.Y)
		dc.ClosePath()
	case diagram.ShapeRectangle:
		dc.DrawRoundedRectangle(x0, y0, n.Width, n.Height, 4)
	}
	if shape != diagram.ShapeLabel {
		fill := firstColor(style.FillColor, theme.Styles.Node.FillColor)
		if fill != "none" {
			dc.SetColor(parseColor(fill, color.White, alpha))
			dc.FillPreserve()
		}
		stroke := firstColor(style.StrokeColor, theme.Styles.Node.StrokeColor, theme.Colors.Node.Default)
		if stroke != "none" {
			dc.SetLineWidth(1.5)
			dc.SetColor(parseColor(stroke, color.Black, alpha))
			dc.StrokePreserve()
		}
		dc.ClearPath()
	}

	dc.SetColor(parseColor(firstColor(style.FontColor, theme.Styles.Node.FontColor, theme.Colors.Node.Default), color.Black, alpha))
	lines := strings.Split(n.Value, "\n")
	lineHeight := dc.FontHeight() * 1.2
	top := n.Y - lineHeight*float64(len(lines)-1)/2
	for i, line := range lines {
		dc.DrawStringAnchored(line, n.X, top+float64(i)*lineHeight, 0.5, 0.35)
	}
	dc.Pop()
}

func drawEdgePNG(dc *gg.Context, e diagram.Edge, src, dst diagram.Node, theme diagram.Theme) {
	fx, fy := borderPoint(src, dst.X, dst.Y)
	tx, ty := borderPoint(dst, src.X, src.Y)

	dc.Push()
	dc.SetColor(parseColor(firstColor(e.Style.LineColor, theme.Styles.Edge.LineColor, theme.Colors.Edge.Default), color.Black, 1))
	dc.SetLineWidth(1.5)
	if e.Style.Dashed {
		dc.SetDash(6, 4)
	}
	dc.DrawLine(fx, fy, tx, ty)
	dc.Stroke()
	dc.SetDash()
	if e.Style.HasEndArrow() {
		drawArrowPNG(dc, fx, fy, tx, ty)
	}
	dc.Pop()
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

// borderPoint is where the line from n's center towards (x, y) leaves n's
// bounding box.
func borderPoint(n diagram.Node, x, y float64) (float64, float64) {
	dx, dy := x-n.X, y-n.Y
	if dx == 0 && dy == 0 {
		return n.X, n.Y
	}
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, n.Width/2/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, n.Height/2/math.Abs(dy))
	}
	t = math.Min(t, 1)
	return n.X + dx*t, n.Y + dy*t
}

func firstColor(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// parseColor reads #rrggbb or #rgb. Anything else falls back.
func parseColor(hex string, fallback color.Color, alpha float64) color.Color {
	c, err := colorful.Hex(expandHex(hex))
	if err != nil {
		r, g, b, _ := fallback.RGBA()
		c = colorful.Color{R: float64(r) / 0xffff, G: float64(g) / 0xffff, B: float64(b) / 0xffff}
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}

func expandHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s
}
