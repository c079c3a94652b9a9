package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Kind is the cell attribute of the hosted game: 0 is empty, 1..n is the n-th shape
// of the active catalogue, KindGarbage is a prefilled cell that belongs to no shape
type Kind uint8

const (
	KindEmpty   Kind = 0
	KindGarbage Kind = 255
)

// ShapeDef describes one shape in a catalogue. Rows use '#' for filled cells and '.'
// for gaps; Pivot is relative to the top-left cell, in cells, on the half-cell lattice.
type ShapeDef struct {
	Name  string     `json:"name"`
	Rows  []string   `json:"rows"`
	Pivot [2]float64 `json:"pivot"`
	Color string     `json:"color,omitempty"`
}

// StandardShapes returns the seven canonical tetrominoes
func StandardShapes() []ShapeDef {
	return []ShapeDef{
		{Name: "I", Rows: []string{"####"}, Pivot: [2]float64{1, 0}, Color: "#00ffff"},
		{Name: "O", Rows: []string{"##", "##"}, Pivot: [2]float64{0.5, 0.5}, Color: "#ffff00"},
		{Name: "T", Rows: []string{"###", ".#."}, Pivot: [2]float64{1, 1}, Color: "#ff00ff"},
		{Name: "J", Rows: []string{"###", "..#"}, Pivot: [2]float64{1, 0}, Color: "#0000ff"},
		{Name: "L", Rows: []string{"..#", "###"}, Pivot: [2]float64{1, 1}, Color: "#ffa500"},
		{Name: "S", Rows: []string{".##", "##."}, Pivot: [2]float64{1, 1}, Color: "#00ff00"},
		{Name: "Z", Rows: []string{"##.", ".##"}, Pivot: [2]float64{1, 1}, Color: "#ff0000"},
	}
}

// Mask builds the shape's mask with every filled cell set to kind
func (d ShapeDef) Mask(kind Kind) (*Grid[Kind], error) {
	if len(d.Rows) == 0 {
		return nil, fmt.Errorf("shape %q has no rows", d.Name)
	}
	rows := make([][]Kind, len(d.Rows))
	filled := 0
	for y, row := range d.Rows {
		rows[y] = make([]Kind, len(row))
		for x, ch := range []byte(row) {
			switch ch {
			case '#':
				rows[y][x] = kind
				filled++
			case '.':
			default:
				return nil, fmt.Errorf("shape %q: invalid character '%c' at row %d, col %d", d.Name, ch, y+1, x+1)
			}
		}
	}
	if filled == 0 {
		return nil, fmt.Errorf("shape %q has no filled cells", d.Name)
	}
	g, err := GridFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("shape %q: %w", d.Name, err)
	}
	return g, nil
}

// HalfPivot converts the pivot to half-cell units
func (d ShapeDef) HalfPivot() (Pivot, error) {
	p, err := PivotAt(d.Pivot[0], d.Pivot[1])
	if err != nil {
		return Pivot{}, fmt.Errorf("shape %q: %w", d.Name, err)
	}
	return p, nil
}

// Shape builds the spawnable shape for kind
func (d ShapeDef) Shape(kind Kind) (Shape[Kind], error) {
	mask, err := d.Mask(kind)
	if err != nil {
		return Shape[Kind]{}, err
	}
	pivot, err := d.HalfPivot()
	if err != nil {
		return Shape[Kind]{}, err
	}
	return Shape[Kind]{Name: d.Name, Mask: mask, Pivot: pivot}, nil
}

// RandomSource picks each shape independently and uniformly from a catalogue
type RandomSource struct {
	shapes []Shape[Kind]
	pcg    *rand.PCG
	rng    *rand.Rand
}

// NewRandomSource builds a source over defs. Kinds are assigned in order starting at 1.
// A zero seed seeds from the clock.
func NewRandomSource(defs []ShapeDef, seed uint64) (*RandomSource, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("shape catalogue is empty")
	}
	if len(defs) >= int(KindGarbage) {
		return nil, fmt.Errorf("shape catalogue has %d shapes, maximum is %d", len(defs), int(KindGarbage)-1)
	}
	shapes := make([]Shape[Kind], len(defs))
	for i, def := range defs {
		shape, err := def.Shape(Kind(i + 1))
		if err != nil {
			return nil, err
		}
		shapes[i] = shape
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &RandomSource{shapes: shapes, pcg: rand.NewPCG(0, 0)}
	s.rng = rand.New(s.pcg)
	s.Reseed(seed)
	return s, nil
}

// Reseed restarts the sequence. Sources given the same seed deal the same shapes.
func (s *RandomSource) Reseed(seed uint64) {
	s.pcg.Seed(seed, seed^0x9e3779b97f4a7c15)
}

// Next returns a uniformly chosen shape
func (s *RandomSource) Next() Shape[Kind] {
	return s.shapes[s.rng.IntN(len(s.shapes))]
}

// Shapes returns a copy of the catalogue in kind order
func (s *RandomSource) Shapes() []Shape[Kind] {
	out := make([]Shape[Kind], len(s.shapes))
	for i, shape := range s.shapes {
		shape.Mask = shape.Mask.Clone()
		out[i] = shape
	}
	return out
}
