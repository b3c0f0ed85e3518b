package physics

import (
	"fmt"
	"math"
	"time"
)

// Setup is everything a loader hands the engine before the first tick.
type Setup struct {
	Table            Table
	Elasticity       Elasticity
	Power            int
	DisplayThreshold int
	// Balls holds the markers, the cue ball and the other table balls, in
	// slot order. Pockets are appended after them.
	Balls      []Ball
	Pockets    []Ball
	MaxSubstep time.Duration
}

// World owns all mutable simulation state. It is not safe for concurrent
// use; a single host goroutine must drive Step and the cue commands.
type World struct {
	Balls            []Ball
	Table            Table
	TableBalls       int
	Pockets          int
	DisplayThreshold int
	// MaxSubstep, when positive, splits long ticks into shorter sub-steps to
	// bound how far a ball can travel between overlap checks.
	MaxSubstep time.Duration

	elasticity Elasticity
	cueSize    CueSize
	aim        Vec2
	power      int
	tick       uint64
}

// NewWorld validates a setup and builds the world from it. Every ball starts
// at rest position = configured position.
func NewWorld(s Setup) (*World, error) {
	if len(s.Balls) <= CueIndex {
		return nil, ErrNoCueBall
	}
	if len(s.Balls)+len(s.Pockets) > MaxBalls {
		return nil, fmt.Errorf("%w: %d balls, %d pockets", ErrTooManyBalls, len(s.Balls), len(s.Pockets))
	}
	if !finite(s.Table.Low.X, s.Table.Low.Y, s.Table.High.X, s.Table.High.Y) ||
		s.Table.High.X <= s.Table.Low.X || s.Table.High.Y <= s.Table.Low.Y {
		return nil, ErrInvalidTable
	}
	if !finite(s.Table.Friction) || s.Table.Friction < 0 {
		return nil, ErrInvalidFriction
	}
	if !s.Elasticity.valid() {
		return nil, ErrInvalidElasticity
	}
	if s.Power < PowerFloor || s.Power >= PowerCap {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPower, s.Power)
	}

	balls := make([]Ball, 0, len(s.Balls)+len(s.Pockets))
	balls = append(balls, s.Balls...)
	balls = append(balls, s.Pockets...)

	for i := range balls {
		b := &balls[i]
		if !finite(b.Radius, b.Mass) || b.Radius <= 0 || b.Mass <= 0 {
			return nil, fmt.Errorf("%w: slot %d (radius=%g mass=%g)", ErrInvalidBall, i, b.Radius, b.Mass)
		}
		if !finite(b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y) {
			return nil, fmt.Errorf("%w: slot %d has a non-finite position or velocity", ErrInvalidBall, i)
		}
		b.RestPosition = b.Position
		b.IsPocket = i >= len(s.Balls)
		b.IsIgnored = i < MarkerCount
		b.HasBeenShot = false
		b.Sunk = false
		if b.Geometry == "" {
			b.Geometry = GeometryDisc
		}
	}
	balls[AimAnchorIndex].RestPosition = aimAnchorRest
	balls[AimAnchorIndex].Geometry = GeometryRing

	threshold := s.DisplayThreshold
	if threshold < 1 {
		threshold = 1
	}

	cueSize := CueSizeNormal
	if cue := balls[CueIndex]; cue.Radius == CueSizeLarge.Radius() && cue.Mass == CueSizeLarge.Mass() {
		cueSize = CueSizeLarge
	}

	return &World{
		Balls:            balls,
		Table:            s.Table,
		TableBalls:       len(s.Balls),
		Pockets:          len(s.Pockets),
		DisplayThreshold: threshold,
		MaxSubstep:       s.MaxSubstep,
		elasticity:       s.Elasticity,
		cueSize:          cueSize,
		power:            s.Power,
	}, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Cue returns the player-controlled ball.
func (w *World) Cue() *Ball {
	return &w.Balls[CueIndex]
}

func (w *World) Elasticity() Elasticity { return w.elasticity }
func (w *World) CueSize() CueSize       { return w.cueSize }
func (w *World) AimVector() Vec2        { return w.aim }
func (w *World) Power() int             { return w.power }
func (w *World) Tick() uint64           { return w.tick }

// Stopped reports whether every ball is at rest. Viscous decay never quite
// reaches zero, so anything slower than RestSpeed counts as stopped.
func (w *World) Stopped() bool {
	for i := range w.Balls {
		if !w.Balls[i].Velocity.Below(RestSpeed) {
			return false
		}
	}
	return true
}

// inPlay reports whether slot i takes part in collision and boundary tests.
func (w *World) inPlay(i int) bool {
	b := &w.Balls[i]
	return !b.IsIgnored && !b.Sunk
}
