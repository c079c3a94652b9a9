package engine

// Layer is a grid placed at an absolute origin. The frozen grid is the layer
// anchored at the board frame; a piece is the layer anchored at its position.
type Layer[T comparable] struct {
	Origin Point
	Grid   *Grid[T]
}

// Bounds returns the absolute rectangle covered by the layer
func (l Layer[T]) Bounds() Rect {
	return Rect{X: l.Origin.X, Y: l.Origin.Y, Width: l.Grid.Width(), Height: l.Grid.Height()}
}

// Overlaps reports whether any occupied cell of a coincides with an occupied cell of b.
// Layers whose bounding boxes do not intersect are rejected without a cell scan.
func Overlaps[T comparable](a, b Layer[T]) bool {
	if !a.Bounds().Intersects(b.Bounds()) {
		return false
	}
	return scanOverlap(a, b)
}

// scanOverlap is the cell-by-cell test behind Overlaps
func scanOverlap[T comparable](a, b Layer[T]) bool {
	bw, bh := b.Grid.Width(), b.Grid.Height()
	for pt := range a.Grid.Occupied() {
		rel := pt.Add(a.Origin).Sub(b.Origin)
		if rel.X < 0 || rel.X >= bw || rel.Y < 0 || rel.Y >= bh {
			continue
		}
		if !b.Grid.IsEmpty(rel.X, rel.Y) {
			return true
		}
	}
	return false
}

// InBounds reports whether the piece's bounding box lies entirely within frame
func InBounds[T comparable](p *Piece[T], frame Rect) bool {
	return frame.Contains(p.Bounds())
}

// ValidPlacement reports whether the piece fits inside frame without touching frozen cells
func ValidPlacement[T comparable](p *Piece[T], frozen Layer[T], frame Rect) bool {
	return InBounds(p, frame) && !Overlaps(p.Layer(), frozen)
}
