package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardPiece(t *testing.T, name string) *Piece[Kind] {
	t.Helper()
	for i, def := range StandardShapes() {
		if def.Name != name {
			continue
		}
		shape, err := def.Shape(Kind(i + 1))
		require.NoError(t, err)
		p, err := NewPiece(shape.Mask, shape.Pivot)
		require.NoError(t, err)
		return p
	}
	t.Fatalf("no standard shape %q", name)
	return nil
}

func TestPivotAt(t *testing.T) {
	tests := []struct {
		x, y    float64
		want    Pivot
		wantErr bool
	}{
		{1, 1, Pivot{X: 2, Y: 2}, false},
		{0.5, 0.5, Pivot{X: 1, Y: 1}, false},
		{-1.5, 2.5, Pivot{X: -3, Y: 5}, false},
		{1, 0.5, Pivot{}, true},
		{0.25, 0, Pivot{}, true},
	}

	for _, tt := range tests {
		got, err := PivotAt(tt.x, tt.y)
		if tt.wantErr {
			assert.Error(t, err, "pivot (%g, %g)", tt.x, tt.y)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		x, y := got.Cells()
		assert.Equal(t, tt.x, x)
		assert.Equal(t, tt.y, y)
	}

	_, err := PivotAt(1, 0.5)
	assert.ErrorIs(t, err, ErrPivotParity)
}

func TestNewPieceRejectsBadInput(t *testing.T) {
	_, err := NewPiece(NewGrid[Kind](0, 0), Pivot{})
	assert.Error(t, err)

	_, err = NewPiece(Fill(2, 2, Kind(1)), Pivot{X: 1, Y: 2})
	assert.ErrorIs(t, err, ErrPivotParity)
}

func TestPieceTranslateMovesPivot(t *testing.T) {
	p := standardPiece(t, "T").At(4, 5)
	assert.Equal(t, Point{X: 4, Y: 5}, p.Pos)
	assert.Equal(t, Pivot{X: 10, Y: 12}, p.Pivot)

	p.Translate(-2, 3)
	assert.Equal(t, Point{X: 2, Y: 8}, p.Pos)
	assert.Equal(t, Pivot{X: 6, Y: 18}, p.Pivot)
	assert.Equal(t, Pivot{X: 2, Y: 2}, p.Offset())
}

func TestPieceRotateLeftT(t *testing.T) {
	p := standardPiece(t, "T").At(4, 5)
	p.RotateLeft()

	const k = Kind(3)
	want, err := GridFromRows([][]Kind{
		{k, 0},
		{k, k},
		{k, 0},
	})
	require.NoError(t, err)

	assert.Equal(t, Point{X: 4, Y: 5}, p.Pos)
	assert.True(t, want.Equal(p.Mask), "rotated mask")
	assert.Equal(t, Pivot{X: 10, Y: 12}, p.Pivot, "pivot is fixed")
}

func TestPieceRotateLeftThenRightRestoresT(t *testing.T) {
	p := standardPiece(t, "T").At(4, 5)
	orig := p.Clone()

	p.RotateLeft()
	p.RotateRight()

	assert.Equal(t, orig.Pos, p.Pos)
	assert.Equal(t, orig.Pivot, p.Pivot)
	assert.True(t, orig.Mask.Equal(p.Mask))
}

func TestPieceRotationProperties(t *testing.T) {
	pivots := []Pivot{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: -3, Y: 5}, {X: 9, Y: -1}}

	for _, def := range StandardShapes() {
		t.Run(def.Name, func(t *testing.T) {
			base := standardPiece(t, def.Name).At(3, 7)
			offsets := append([]Pivot{base.Offset()}, pivots...)

			for _, offset := range offsets {
				p, err := NewPiece(base.Mask, offset)
				require.NoError(t, err)
				p.At(3, 7)

				four := p.Clone()
				for i := 0; i < 4; i++ {
					four.RotateLeft()
				}
				assert.Equal(t, p.Pos, four.Pos, "four left turns, pivot %s", offset)
				assert.True(t, p.Mask.Equal(four.Mask), "four left turns, pivot %s", offset)

				fourRight := p.Clone()
				for i := 0; i < 4; i++ {
					fourRight.RotateRight()
				}
				assert.Equal(t, p.Pos, fourRight.Pos, "four right turns, pivot %s", offset)
				assert.True(t, p.Mask.Equal(fourRight.Mask), "four right turns, pivot %s", offset)

				lr := p.Clone()
				lr.RotateLeft()
				assert.Equal(t, p.Height(), lr.Width())
				assert.Equal(t, p.Width(), lr.Height())
				assert.Equal(t, p.Mask.Count(), lr.Mask.Count())
				lr.RotateRight()
				assert.Equal(t, p.Pos, lr.Pos, "left then right, pivot %s", offset)
				assert.True(t, p.Mask.Equal(lr.Mask), "left then right, pivot %s", offset)

				rl := p.Clone()
				rl.RotateRight()
				rl.RotateLeft()
				assert.Equal(t, p.Pos, rl.Pos, "right then left, pivot %s", offset)
				assert.True(t, p.Mask.Equal(rl.Mask), "right then left, pivot %s", offset)
			}
		})
	}
}

func TestPieceRotateOSquareStaysPut(t *testing.T) {
	p := standardPiece(t, "O").At(5, 10)
	p.RotateRight()
	assert.Equal(t, Point{X: 5, Y: 10}, p.Pos)
	p.RotateLeft()
	p.RotateLeft()
	assert.Equal(t, Point{X: 5, Y: 10}, p.Pos)
}

func TestPieceRotateIAboutPivot(t *testing.T) {
	// I is horizontal with the pivot on its second cell; a right turn hangs it
	// vertically through that cell
	p := standardPiece(t, "I").At(3, 5)
	p.RotateRight()

	assert.Equal(t, 1, p.Width())
	assert.Equal(t, 4, p.Height())
	assert.Equal(t, Point{X: 4, Y: 4}, p.Pos)

	var cells []Point
	for pt := range p.Occupied() {
		cells = append(cells, pt)
	}
	assert.Contains(t, cells, Point{X: 4, Y: 5})
}

func TestPieceCloneIsIndependent(t *testing.T) {
	p := standardPiece(t, "S")
	c := p.Clone()
	c.RotateLeft()
	c.Translate(1, 1)
	assert.Equal(t, Point{}, p.Pos)
	assert.Equal(t, 3, p.Width())
}
