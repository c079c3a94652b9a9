package main

import (
	"fmt"
	"iter"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/blockfall/game/engine"
)

// Each board cell is two terminal columns wide so pieces keep their proportions
const cellWidth = 2

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	emptyStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	ghostStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	alertStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// screenRenderer draws board frames onto a tcell screen. The frame's top-left
// border corner sits at (left, top).
type screenRenderer struct {
	screen tcell.Screen
	left   int
	top    int
	styles map[engine.Kind]tcell.Style

	// ghost is drawn under the cells of the next frame
	ghost []engine.Point
}

func newScreenRenderer(screen tcell.Screen, e *engine.GameEngine) *screenRenderer {
	r := &screenRenderer{
		screen: screen,
		left:   1,
		top:    1,
		styles: map[engine.Kind]tcell.Style{
			engine.KindGarbage: tcell.StyleDefault.Foreground(tcell.ColorSilver),
		},
	}
	for i := range e.GetConfig().ShapeDefs() {
		kind := engine.Kind(i + 1)
		def, _ := e.ShapeDef(kind)
		color := tcell.ColorWhite
		if def.Color != "" {
			if c := tcell.GetColor(def.Color); c != tcell.ColorDefault {
				color = c
			}
		}
		r.styles[kind] = tcell.StyleDefault.Foreground(color)
	}
	return r
}

func (r *screenRenderer) style(k engine.Kind) tcell.Style {
	if s, ok := r.styles[k]; ok {
		return s
	}
	return textStyle
}

// screenPos maps a board point to the terminal column and row of its left half
func (r *screenRenderer) screenPos(frame engine.Rect, pt engine.Point) (int, int) {
	return r.left + 1 + (pt.X-frame.X)*cellWidth, r.top + 1 + pt.Y - frame.Y
}

func (r *screenRenderer) fill(frame engine.Rect, pt engine.Point, ch rune, style tcell.Style) {
	if pt.X < frame.X || pt.X >= frame.Right() || pt.Y < frame.Y || pt.Y >= frame.Bottom() {
		return
	}
	x, y := r.screenPos(frame, pt)
	for i := 0; i < cellWidth; i++ {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// Render draws the border, the empty well, the ghost and then every occupied cell.
// Cells above the frame belong to a piece still entering the board and are skipped.
func (r *screenRenderer) Render(frame engine.Rect, cells iter.Seq2[engine.Point, engine.Kind]) {
	right := r.left + 1 + frame.Width*cellWidth
	bottom := r.top + 1 + frame.Height
	for x := r.left; x <= right; x++ {
		r.screen.SetContent(x, r.top, '─', nil, borderStyle)
		r.screen.SetContent(x, bottom, '─', nil, borderStyle)
	}
	for y := r.top; y <= bottom; y++ {
		r.screen.SetContent(r.left, y, '│', nil, borderStyle)
		r.screen.SetContent(right, y, '│', nil, borderStyle)
	}
	r.screen.SetContent(r.left, r.top, '┌', nil, borderStyle)
	r.screen.SetContent(right, r.top, '┐', nil, borderStyle)
	r.screen.SetContent(r.left, bottom, '└', nil, borderStyle)
	r.screen.SetContent(right, bottom, '┘', nil, borderStyle)

	for y := frame.Y; y < frame.Bottom(); y++ {
		for x := frame.X; x < frame.Right(); x++ {
			sx, sy := r.screenPos(frame, engine.Point{X: x, Y: y})
			r.screen.SetContent(sx, sy, ' ', nil, emptyStyle)
			r.screen.SetContent(sx+1, sy, '.', nil, emptyStyle)
		}
	}

	for _, pt := range r.ghost {
		r.fill(frame, pt, '░', ghostStyle)
	}
	for pt, k := range cells {
		r.fill(frame, pt, '█', r.style(k))
	}
}

func (r *screenRenderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// sidebar prints the counters, the last message and the key help to the right of the well
func (r *screenRenderer) sidebar(state *engine.GameState, paused bool) {
	x := r.left + state.Frame.Width*cellWidth + 4
	y := r.top

	r.text(x, y, "BLOCKFALL", titleStyle)
	r.text(x, y+1, state.ConfigName, textStyle)
	r.text(x, y+3, fmt.Sprintf("Lines:  %d", state.LinesCleared), textStyle)
	r.text(x, y+4, fmt.Sprintf("Pieces: %d", state.PiecesLocked), textStyle)
	r.text(x, y+5, fmt.Sprintf("Ticks:  %d", state.Ticks), textStyle)
	r.text(x, y+7, state.Message, textStyle)

	switch {
	case state.GameOver:
		r.text(x, y+9, "GAME OVER - r to restart", alertStyle)
	case paused:
		r.text(x, y+9, "PAUSED - p to resume", alertStyle)
	}

	help := []string{
		"←/→  move",
		"↓    soft drop",
		"z/x  rotate, k right",
		"↑/spc hard drop",
		"p    pause",
		"r    restart",
		"q    quit",
	}
	for i, line := range help {
		r.text(x, y+11+i, line, borderStyle)
	}
}
