package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/cuesim/internal/sim"
)

var runeCommands = map[rune]sim.CommandName{
	' ': sim.CmdShoot,
	'r': sim.CmdRack,
	'c': sim.CmdRackCue,
	'E': sim.CmdElasticityUp,
	'e': sim.CmdElasticityDown,
	'B': sim.CmdCueSizeUp,
	'b': sim.CmdCueSizeDown,
	'w': sim.CmdMoveUp,
	's': sim.CmdMoveDown,
	'a': sim.CmdMoveBack,
	'd': sim.CmdMoveForward,
	'+': sim.CmdPowerUp,
	'=': sim.CmdPowerUp,
	'-': sim.CmdPowerDown,
}

// KeyAction is what a key press asks the client to do.
type KeyAction int

const (
	KeyIgnored KeyAction = iota
	KeyCommand
	KeyQuit
)

// MapKey translates a key press into a table command.
func MapKey(ev *tcell.EventKey) (sim.Command, KeyAction) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return sim.Command{}, KeyQuit
	case tcell.KeyRune:
		if name, ok := runeCommands[ev.Rune()]; ok {
			return sim.Command{Name: name}, KeyCommand
		}
	}
	return sim.Command{}, KeyIgnored
}
