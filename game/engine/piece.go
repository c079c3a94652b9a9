package engine

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// ErrPivotParity is returned for a pivot that mixes a whole-cell and a half-cell coordinate.
// Rotating about such a point would move cells off the integer lattice.
var ErrPivotParity = errors.New("pivot must be whole on both axes or half on both axes")

// Pivot is a rotation axis measured in half cells: Pivot{X: 3, Y: 1} is the point (1.5, 0.5)
type Pivot struct {
	X int `json:"x2"`
	Y int `json:"y2"`
}

// PivotAt converts a point in cell units to a Pivot. Both coordinates must be multiples of 0.5
// with matching parity.
func PivotAt(x, y float64) (Pivot, error) {
	hx, hy := x*2, y*2
	if math.IsInf(hx, 0) || math.IsInf(hy, 0) || hx != math.Trunc(hx) || hy != math.Trunc(hy) {
		return Pivot{}, fmt.Errorf("pivot (%g, %g) is not on the half-cell lattice", x, y)
	}
	p := Pivot{X: int(hx), Y: int(hy)}
	if !p.Valid() {
		return Pivot{}, fmt.Errorf("pivot (%g, %g): %w", x, y, ErrPivotParity)
	}
	return p, nil
}

// Valid reports whether the pivot keeps rotated cells on the integer lattice
func (p Pivot) Valid() bool {
	return (p.X^p.Y)&1 == 0
}

// Cells returns the pivot in cell units
func (p Pivot) Cells() (float64, float64) {
	return float64(p.X) / 2, float64(p.Y) / 2
}

// Shift returns the pivot translated by whole cells
func (p Pivot) Shift(dx, dy int) Pivot {
	return Pivot{X: p.X + 2*dx, Y: p.Y + 2*dy}
}

func (p Pivot) String() string {
	x, y := p.Cells()
	return fmt.Sprintf("(%g, %g)", x, y)
}

// rotation direction vectors and the mask corner that becomes the new top-left
var (
	leftTurn   = Point{X: 1, Y: -1}
	leftCorner = Point{X: 1, Y: 0}

	rightTurn   = Point{X: -1, Y: 1}
	rightCorner = Point{X: 0, Y: 1}
)

// rotatePoint maps p a quarter turn around axis. Working in doubled coordinates keeps the
// result exact: p doubled is even and the parity of the axis cancels out.
func rotatePoint(p Point, axis Pivot, v Point) Point {
	return Point{
		X: (v.X*(2*p.Y-axis.Y) + axis.X) / 2,
		Y: (v.Y*(2*p.X-axis.X) + axis.Y) / 2,
	}
}

// Piece is a movable mask positioned on the board. Pos is the absolute cell of the
// mask's top-left corner and Pivot is the absolute rotation axis.
type Piece[T comparable] struct {
	Pos   Point
	Pivot Pivot
	Mask  *Grid[T]
}

// NewPiece creates a piece at the origin from a mask and a pivot relative to the mask's
// top-left cell. The mask is copied.
func NewPiece[T comparable](mask *Grid[T], offset Pivot) (*Piece[T], error) {
	if mask == nil || mask.Width() == 0 || mask.Height() == 0 {
		return nil, errors.New("piece mask must not be empty")
	}
	if !offset.Valid() {
		return nil, fmt.Errorf("pivot %s: %w", offset, ErrPivotParity)
	}
	return &Piece[T]{Mask: mask.Clone(), Pivot: offset}, nil
}

// At moves the piece so its top-left cell is (x, y), carrying the pivot along
func (p *Piece[T]) At(x, y int) *Piece[T] {
	p.Translate(x-p.Pos.X, y-p.Pos.Y)
	return p
}

// Offset returns the pivot relative to the top-left cell
func (p *Piece[T]) Offset() Pivot {
	return Pivot{X: p.Pivot.X - 2*p.Pos.X, Y: p.Pivot.Y - 2*p.Pos.Y}
}

// Width returns the mask width
func (p *Piece[T]) Width() int { return p.Mask.Width() }

// Height returns the mask height
func (p *Piece[T]) Height() int { return p.Mask.Height() }

// Bounds returns the absolute bounding box of the mask
func (p *Piece[T]) Bounds() Rect {
	return Rect{X: p.Pos.X, Y: p.Pos.Y, Width: p.Mask.Width(), Height: p.Mask.Height()}
}

// Translate shifts position and pivot together. Validity is checked by the caller.
func (p *Piece[T]) Translate(dx, dy int) {
	p.Pos.X += dx
	p.Pos.Y += dy
	p.Pivot = p.Pivot.Shift(dx, dy)
}

// RotateLeft turns the piece a quarter turn counter-clockwise about its pivot
func (p *Piece[T]) RotateLeft() {
	p.rotate(leftTurn, leftCorner)
}

// RotateRight turns the piece a quarter turn clockwise about its pivot
func (p *Piece[T]) RotateRight() {
	p.rotate(rightTurn, rightCorner)
}

func (p *Piece[T]) rotate(v, corner Point) {
	w, h := p.Mask.Width(), p.Mask.Height()
	ref := Point{
		X: p.Pos.X + corner.X*(w-1),
		Y: p.Pos.Y + corner.Y*(h-1),
	}
	origin := rotatePoint(ref, p.Pivot, v)

	mask := NewGrid[T](h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			abs := Point{X: x + p.Pos.X, Y: y + p.Pos.Y}
			local := rotatePoint(abs, p.Pivot, v).Sub(origin)
			mask.Set(local.X, local.Y, p.Mask.Get(x, y))
		}
	}

	p.Pos = origin
	p.Mask = mask
}

// Clone returns an independent copy of the piece
func (p *Piece[T]) Clone() *Piece[T] {
	return &Piece[T]{Pos: p.Pos, Pivot: p.Pivot, Mask: p.Mask.Clone()}
}

// Occupied iterates over the absolute coordinates of the piece's non-empty cells
func (p *Piece[T]) Occupied() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		for pt, v := range p.Mask.Occupied() {
			if !yield(pt.Add(p.Pos), v) {
				return
			}
		}
	}
}

// Layer returns the piece mask placed at its absolute position
func (p *Piece[T]) Layer() Layer[T] {
	return Layer[T]{Origin: p.Pos, Grid: p.Mask}
}
