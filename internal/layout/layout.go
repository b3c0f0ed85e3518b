package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playmatatu/cuesim/internal/physics"
)

var (
	ErrMalformed   = errors.New("malformed layout")
	ErrUnsupported = errors.New("unsupported layout format")
)

// BallSpec is one ball or pocket record of a layout file.
type BallSpec struct {
	Mass     float64       `json:"mass" mapstructure:"mass"`
	Radius   float64       `json:"radius" mapstructure:"radius"`
	Color    physics.Color `json:"color" mapstructure:"color"`
	Position physics.Vec2  `json:"position" mapstructure:"position"`
	Velocity physics.Vec2  `json:"velocity" mapstructure:"velocity"`
}

// Layout is the initial configuration of a table. Balls holds the four
// marker slots and the cue ball first, in slot order.
type Layout struct {
	DisplayThreshold int           `json:"display_threshold" mapstructure:"display_threshold"`
	Low              physics.Vec2  `json:"low" mapstructure:"low"`
	High             physics.Vec2  `json:"high" mapstructure:"high"`
	TableColor       physics.Color `json:"table_color" mapstructure:"table_color"`
	FringeWidth      float64       `json:"fringe_width" mapstructure:"fringe_width"`
	FringeColor      physics.Color `json:"fringe_color" mapstructure:"fringe_color"`
	Elasticity       float64       `json:"elasticity" mapstructure:"elasticity"`
	Friction         float64       `json:"friction" mapstructure:"friction"`
	Power            int           `json:"power" mapstructure:"power"`
	Balls            []BallSpec    `json:"balls" mapstructure:"balls"`
	Pockets          []BallSpec    `json:"pockets" mapstructure:"pockets"`
}

// Load reads a layout file. YAML, JSON and TOML files go through viper;
// anything else is parsed as the whitespace-separated text format.
func Load(path string) (*Layout, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		return LoadStructured(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	l, err := ParseText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Setup converts the layout into the engine's setup.
func (l *Layout) Setup(maxSubstep time.Duration) (physics.Setup, error) {
	elasticity, err := physics.ElasticityFromCoefficient(l.Elasticity)
	if err != nil {
		return physics.Setup{}, fmt.Errorf("%w: %g", err, l.Elasticity)
	}

	return physics.Setup{
		Table: physics.Table{
			Low:         l.Low,
			High:        l.High,
			Friction:    l.Friction,
			Color:       l.TableColor,
			FringeWidth: l.FringeWidth,
			FringeColor: l.FringeColor,
		},
		Elasticity:       elasticity,
		Power:            l.Power,
		DisplayThreshold: l.DisplayThreshold,
		Balls:            toBalls(l.Balls),
		Pockets:          toBalls(l.Pockets),
		MaxSubstep:       maxSubstep,
	}, nil
}

// Build validates the layout and returns a ready world.
func (l *Layout) Build(maxSubstep time.Duration) (*physics.World, error) {
	s, err := l.Setup(maxSubstep)
	if err != nil {
		return nil, err
	}
	w, err := physics.NewWorld(s)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	return w, nil
}

func toBalls(specs []BallSpec) []physics.Ball {
	balls := make([]physics.Ball, len(specs))
	for i, s := range specs {
		balls[i] = physics.Ball{
			Position: s.Position,
			Velocity: s.Velocity,
			Radius:   s.Radius,
			Mass:     s.Mass,
			Color:    s.Color,
		}
	}
	return balls
}
