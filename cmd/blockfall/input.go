package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/blockfall/game/engine"
)

// keyCommand is what a key press asks the game loop to do. At most one field is set.
type keyCommand struct {
	Action engine.Action
	Quit   bool
	Reset  bool
	Pause  bool
}

var runeCommands = map[rune]keyCommand{
	'h': {Action: engine.ActionLeft},
	'l': {Action: engine.ActionRight},
	'j': {Action: engine.ActionDown},
	'z': {Action: engine.ActionRotateLeft},
	'x': {Action: engine.ActionRotateRight},
	'k': {Action: engine.ActionRotateRight},
	' ': {Action: engine.ActionHardDrop},
	'p': {Pause: true},
	'r': {Reset: true},
	'q': {Quit: true},
}

var keyCommands = map[tcell.Key]keyCommand{
	tcell.KeyLeft:   {Action: engine.ActionLeft},
	tcell.KeyRight:  {Action: engine.ActionRight},
	tcell.KeyDown:   {Action: engine.ActionDown},
	tcell.KeyUp:     {Action: engine.ActionHardDrop},
	tcell.KeyEscape: {Quit: true},
	tcell.KeyCtrlC:  {Quit: true},
}

// mapKey translates a key event, reporting false for keys the game ignores
func mapKey(ev *tcell.EventKey) (keyCommand, bool) {
	if ev.Key() == tcell.KeyRune {
		cmd, ok := runeCommands[ev.Rune()]
		return cmd, ok
	}
	cmd, ok := keyCommands[ev.Key()]
	return cmd, ok
}
