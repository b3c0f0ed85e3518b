package physics

// Cue control thresholds. Speeds are compared per axis in magnitude.
const (
	PowerCap   = 15
	PowerFloor = 1

	ShootThreshold        = 0.6
	AimThreshold          = 1.0
	MarkerFollowThreshold = 0.2
	RestSpeed             = 0.01
)

// CueState is the shot cycle of the cue ball.
type CueState string

const (
	CueResting  CueState = "resting"
	CueInFlight CueState = "in_flight"
)

// Direction is a unit step for repositioning the cue ball before a shot.
type Direction string

const (
	DirUp      Direction = "up"
	DirDown    Direction = "down"
	DirForward Direction = "forward"
	DirBack    Direction = "back"
)

func (w *World) State() CueState {
	if w.Cue().HasBeenShot {
		return CueInFlight
	}
	return CueResting
}

// Aim places the aim target marker at target and points the shot from the
// target towards the anchor marker. It is refused while the cue ball is
// still moving.
func (w *World) Aim(target Vec2) bool {
	if !w.Cue().Velocity.Below(AimThreshold) {
		return false
	}
	w.Balls[AimTargetIndex].Position = target
	w.aim = w.Balls[AimAnchorIndex].Position.Minus(target)
	return true
}

// AdjustPower moves the power level by delta within [PowerFloor, PowerCap).
// A step that would leave the range is ignored. It returns the power level.
func (w *World) AdjustPower(delta int) int {
	next := w.power + delta
	if next < PowerFloor || next >= PowerCap {
		return w.power
	}
	w.power = next
	return w.power
}

// Shoot launches the cue ball along the aim vector scaled by the power
// level. It does nothing unless the cue ball is nearly stopped and on the
// table.
func (w *World) Shoot() bool {
	cue := w.Cue()
	if cue.Sunk || !cue.Velocity.Below(ShootThreshold) {
		return false
	}
	cue.HasBeenShot = true

	target := &w.Balls[AimTargetIndex]
	target.Position = target.RestPosition
	w.Balls[AimAnchorIndex].Position = cue.RestPosition

	cue.Velocity = w.aim.Times(float64(w.power))
	w.aim = Vec2{}
	return true
}

// Rack stops every ball and puts it back at its rest position. Elasticity
// returns to normal and the cue ball is ready to shoot again.
func (w *World) Rack() {
	for i := range w.Balls {
		w.Balls[i].Respawn()
	}
	w.elasticity = ElasticityNormal
	w.Cue().HasBeenShot = false
}

// RackCue resets only the cue ball.
func (w *World) RackCue() {
	cue := w.Cue()
	cue.Respawn()
	cue.HasBeenShot = false
}

// MoveCue nudges the cue ball one unit. The cue ball cannot be moved once it
// has been shot, and cannot be pushed forward past its rest position.
func (w *World) MoveCue(dir Direction) bool {
	cue := w.Cue()
	if cue.HasBeenShot {
		return false
	}
	switch dir {
	case DirUp:
		cue.Position.Y += 1
	case DirDown:
		cue.Position.Y -= 1
	case DirBack:
		cue.Position.X -= 1
	case DirForward:
		if cue.Position.X+1 > cue.RestPosition.X {
			return false
		}
		cue.Position.X += 1
	default:
		return false
	}
	return true
}

// AdjustElasticity steps elasticity one level up or down, stopping at the
// ends.
func (w *World) AdjustElasticity(up bool) Elasticity {
	switch {
	case up && w.elasticity < ElasticityHigh:
		w.elasticity++
	case !up && w.elasticity > ElasticityLow:
		w.elasticity--
	}
	return w.elasticity
}

// AdjustCueBallSize switches the cue ball between its two size presets.
func (w *World) AdjustCueBallSize(up bool) CueSize {
	w.cueSize = CueSizeNormal
	if up {
		w.cueSize = CueSizeLarge
	}
	cue := w.Cue()
	cue.Radius = w.cueSize.Radius()
	cue.Mass = w.cueSize.Mass()
	return w.cueSize
}

// trackAimMarker keeps the anchor marker on the cue ball while it is nearly
// still and parks it off the table otherwise.
func (w *World) trackAimMarker() {
	cue := w.Cue()
	anchor := &w.Balls[AimAnchorIndex]
	if cue.Velocity.Below(MarkerFollowThreshold) {
		anchor.Position = cue.Position
		return
	}
	anchor.Position = anchor.RestPosition.Invert()
}
