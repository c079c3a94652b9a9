package engine

import (
	"fmt"
	"iter"
)

// Point is an integer cell coordinate, either local to a grid or absolute on the board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p relative to q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle measured in cells
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the first column past the rectangle
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no cells
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether o lies entirely within r
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Right() <= r.Right() &&
		o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o share at least one cell.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// OutOfBoundsError is the panic value for a grid access outside its dimensions
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("grid access (%d, %d) outside %dx%d", e.X, e.Y, e.Width, e.Height)
}

// Grid is a fixed-size 2D buffer of cell values. The zero value of T is the
// empty cell; every other value is an occupied cell carrying that attribute.
type Grid[T comparable] struct {
	width  int
	height int
	cells  []T
}

// Fill creates a width x height grid with every cell set to value
func Fill[T comparable](width, height int, value T) *Grid[T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("engine: negative grid size %dx%d", width, height))
	}
	g := &Grid[T]{width: width, height: height, cells: make([]T, width*height)}
	var empty T
	if value != empty {
		for i := range g.cells {
			g.cells[i] = value
		}
	}
	return g
}

// NewGrid creates an empty width x height grid
func NewGrid[T comparable](width, height int) *Grid[T] {
	var empty T
	return Fill(width, height, empty)
}

// GridFromRows builds a grid from row-major values. All rows must have the same length.
func GridFromRows[T comparable](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 {
		return NewGrid[T](0, 0), nil
	}
	width := len(rows[0])
	g := NewGrid[T](width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", y, len(row), width)
		}
		copy(g.cells[y*width:(y+1)*width], row)
	}
	return g, nil
}

// Width returns the number of columns
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid[T]) Height() int { return g.height }

// Bounds returns the grid rectangle anchored at the origin
func (g *Grid[T]) Bounds() Rect {
	return Rect{Width: g.width, Height: g.height}
}

func (g *Grid[T]) index(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(&OutOfBoundsError{X: x, Y: y, Width: g.width, Height: g.height})
	}
	return y*g.width + x
}

// Get returns the value at (x, y). It panics with *OutOfBoundsError outside the grid.
func (g *Grid[T]) Get(x, y int) T {
	return g.cells[g.index(x, y)]
}

// Set overwrites the value at (x, y). It panics with *OutOfBoundsError outside the grid.
func (g *Grid[T]) Set(x, y int, value T) {
	g.cells[g.index(x, y)] = value
}

// IsEmpty reports whether the cell at (x, y) holds the empty value
func (g *Grid[T]) IsEmpty(x, y int) bool {
	var empty T
	return g.Get(x, y) == empty
}

// Clone returns an independent copy of the grid
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{width: g.width, height: g.height, cells: make([]T, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and contents
func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Row returns a copy of row y
func (g *Grid[T]) Row(y int) []T {
	start := g.index(0, y)
	row := make([]T, g.width)
	copy(row, g.cells[start:start+g.width])
	return row
}

// RowFull reports whether every cell of row y is occupied
func (g *Grid[T]) RowFull(y int) bool {
	if g.width == 0 {
		return false
	}
	var empty T
	start := g.index(0, y)
	for _, v := range g.cells[start : start+g.width] {
		if v == empty {
			return false
		}
	}
	return true
}

// ShiftDown removes row by moving every row above it down by one.
// Row 0 is left empty afterwards.
func (g *Grid[T]) ShiftDown(row int) {
	g.index(0, row)
	w := g.width
	copy(g.cells[w:(row+1)*w], g.cells[:row*w])
	var empty T
	for i := 0; i < w; i++ {
		g.cells[i] = empty
	}
}

// Clear resets every cell to the empty value
func (g *Grid[T]) Clear() {
	clear(g.cells)
}

// Occupied iterates over the non-empty cells in row-major order
func (g *Grid[T]) Occupied() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		var empty T
		for i, v := range g.cells {
			if v == empty {
				continue
			}
			if !yield(Point{X: i % g.width, Y: i / g.width}, v) {
				return
			}
		}
	}
}

// Count returns the number of occupied cells
func (g *Grid[T]) Count() int {
	n := 0
	for range g.Occupied() {
		n++
	}
	return n
}
