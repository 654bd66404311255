package store

import (
	"math"

	"flowdraw/internal/diagram"
)

const (
	ZoomStep     = 1.2
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9
	FitMargin    = 100
)

// SetViewport merges p into the viewport. The scale is clamped to
// [diagram.MinScale, diagram.MaxScale]. Viewport changes are not undoable.
func (s *Store) SetViewport(p diagram.ViewportPatch) {
	if !p.Apply(&s.d.Viewport) {
		return
	}
	s.touch()
	s.emit(ChangeViewport | ChangeMetadata)
}

func (s *Store) Viewport() diagram.Viewport {
	return s.d.Viewport
}

func (s *Store) ZoomIn() {
	s.ZoomBy(ZoomStep)
}

func (s *Store) ZoomOut() {
	s.ZoomBy(1 / ZoomStep)
}

// ZoomBy multiplies the scale by factor.
func (s *Store) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	s.SetViewport(diagram.ViewportPatch{Scale: diagram.Ptr(s.d.Viewport.Scale * factor)})
}

// ZoomToFit scales and centers the view so that every node fits into a view
// of viewWidth×viewHeight pixels, never zooming in past 1. The view size is
// supplied by the caller; the store does not know it.
func (s *Store) ZoomToFit(viewWidth, viewHeight float64) {
	if len(s.d.Nodes) == 0 || viewWidth <= 0 || viewHeight <= 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range s.d.Nodes {
		x0, y0, x1, y1 := n.Bounds()
		minX = math.Min(minX, x0)
		minY = math.Min(minY, y0)
		maxX = math.Max(maxX, x1)
		maxY = math.Max(maxY, y1)
	}

	contentWidth := maxX - minX + FitMargin
	contentHeight := maxY - minY + FitMargin
	scale := diagram.ClampScale(math.Min(math.Min(viewWidth/contentWidth, viewHeight/contentHeight), 1))

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	s.SetViewport(diagram.ViewportPatch{
		Scale:      diagram.Ptr(scale),
		TranslateX: diagram.Ptr(viewWidth/2 - centerX*scale),
		TranslateY: diagram.Ptr(viewHeight/2 - centerY*scale),
	})
}

func (s *Store) ResetZoom() {
	s.SetViewport(diagram.ViewportPatch{
		Scale:      diagram.Ptr(1.0),
		TranslateX: diagram.Ptr(0.0),
		TranslateY: diagram.Ptr(0.0),
	})
}
