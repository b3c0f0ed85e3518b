package physics

// Contact classifies what ResolveContact did to a pair.
type Contact string

const (
	ContactNone       Contact = "none"
	ContactPocketed   Contact = "pocket"
	ContactBounced    Contact = "ball"
	ContactSeparating Contact = "separating"
	// ContactDegenerate marks coincident centers: there is no collision
	// normal, so the pair is left alone for this tick.
	ContactDegenerate Contact = "degenerate"
)

// Overlaps reports whether two discs touch. A pocket captures a ball when the
// ball's center enters the pocket's own radius; two balls overlap when their
// centers are closer than the sum of the radii.
func Overlaps(a, b *Ball) bool {
	d2 := a.Position.Minus(b.Position).MagnitudeSquared()
	switch {
	case a.IsPocket:
		return d2 <= a.Radius*a.Radius
	case b.IsPocket:
		return d2 <= b.Radius*b.Radius
	default:
		sum := a.Radius + b.Radius
		return d2 <= sum*sum
	}
}

// sinkPosition is where a ball captured by pocket p is parked, well off the
// playfield.
func sinkPosition(p *Ball) Vec2 {
	return p.RestPosition.Times(-2)
}

// ResolveContact applies the collision response for balls[i] and balls[j].
// Callers must have checked Overlaps first. Indexing into one slice keeps the
// two balls distinct; i == j is a no-op.
func ResolveContact(balls []Ball, i, j int, elasticity float64) Contact {
	if i == j {
		return ContactNone
	}
	a, b := &balls[i], &balls[j]

	switch {
	case a.IsPocket && b.IsPocket:
		return ContactNone
	case a.IsPocket:
		b.Velocity = Vec2{}
		b.Position = sinkPosition(a)
		b.Sunk = true
		return ContactPocketed
	case b.IsPocket:
		a.Velocity = Vec2{}
		a.Position = sinkPosition(b)
		a.Sunk = true
		return ContactPocketed
	}

	delta := a.Position.Minus(b.Position)
	distance := delta.Magnitude()
	if distance == 0 {
		return ContactDegenerate
	}
	normal := delta.Times(1 / distance)

	// Push each ball out by half the penetration so they end up just touching.
	penetration := a.Radius + b.Radius - distance
	a.Position = a.Position.Plus(normal.Times(0.5 * penetration))
	b.Position = b.Position.Minus(normal.Times(0.5 * penetration))

	// Rate at which the gap along the normal opens. Zero or positive means
	// the pair is already parting.
	vn := a.Velocity.Minus(b.Velocity).Dot(normal)
	if vn >= 0 {
		return ContactSeparating
	}

	impulse := -(1 + elasticity) * vn / (1/a.Mass + 1/b.Mass)
	a.Velocity = a.Velocity.Plus(normal.Times(impulse / a.Mass))
	b.Velocity = b.Velocity.Minus(normal.Times(impulse / b.Mass))
	return ContactBounced
}
