package sim

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playmatatu/cuesim/internal/physics"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrSessionClosed  = errors.New("session is not running")
)

// CommandName identifies a cue command.
type CommandName string

const (
	CmdShoot          CommandName = "shoot"
	CmdRack           CommandName = "rack"
	CmdRackCue        CommandName = "rack_cue"
	CmdPowerUp        CommandName = "power_up"
	CmdPowerDown      CommandName = "power_down"
	CmdElasticityUp   CommandName = "elasticity_up"
	CmdElasticityDown CommandName = "elasticity_down"
	CmdCueSizeUp      CommandName = "cue_size_up"
	CmdCueSizeDown    CommandName = "cue_size_down"
	CmdMoveUp         CommandName = "move_up"
	CmdMoveDown       CommandName = "move_down"
	CmdMoveForward    CommandName = "move_forward"
	CmdMoveBack       CommandName = "move_back"
	CmdAim            CommandName = "aim"
)

var moves = map[CommandName]physics.Direction{
	CmdMoveUp:      physics.DirUp,
	CmdMoveDown:    physics.DirDown,
	CmdMoveForward: physics.DirForward,
	CmdMoveBack:    physics.DirBack,
}

func (n CommandName) Valid() bool {
	switch n {
	case CmdShoot, CmdRack, CmdRackCue, CmdPowerUp, CmdPowerDown,
		CmdElasticityUp, CmdElasticityDown, CmdCueSizeUp, CmdCueSizeDown, CmdAim:
		return true
	}
	_, ok := moves[n]
	return ok
}

// Command is a request to change the cue controller. X and Y are only read
// by aim, in table coordinates.
type Command struct {
	Name CommandName `json:"name"`
	X    float64     `json:"x,omitempty"`
	Y    float64     `json:"y,omitempty"`
}

// ParseCommand decodes and validates a JSON command.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if !cmd.Name.Valid() {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	return cmd, nil
}

// Result reports what a command did. Refused commands are not errors:
// Applied is false and the world is unchanged.
type Result struct {
	Command    CommandName      `json:"command"`
	Applied    bool             `json:"applied"`
	Message    string           `json:"message,omitempty"`
	Tick       uint64           `json:"tick"`
	State      physics.CueState `json:"state"`
	Power      int              `json:"power"`
	Elasticity string           `json:"elasticity"`
	CueSize    string           `json:"cue_size"`
}
