package physics

// Integrate advances every ball by dt seconds and applies linear viscous
// friction. The decay factor is clamped at zero so friction can stop a ball
// but never reverse it.
func Integrate(balls []Ball, friction, dt float64) {
	if dt <= 0 {
		return
	}
	decay := 1 - friction*dt
	if decay < 0 {
		decay = 0
	}
	for i := range balls {
		b := &balls[i]
		b.Position = b.Position.Plus(b.Velocity.Times(dt))
		b.Velocity = b.Velocity.Times(decay)
	}
}
