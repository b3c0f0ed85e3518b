package physics

// Edge names the table side a ball was pushed back from.
type Edge string

const (
	EdgeNone   Edge = ""
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeLeft   Edge = "left"
	EdgeBottom Edge = "bottom"
)

// Reflect bounces b off the first table edge it crosses, checked in the
// order right, top, left, bottom. The crossing velocity component is negated
// and the ball is placed with its edge exactly on the boundary. A ball past
// two edges is corrected on one axis now and the other on a later tick.
func Reflect(b *Ball, t Table) Edge {
	switch {
	case b.Position.X+b.Radius > t.High.X:
		b.Velocity.X = -b.Velocity.X
		b.Position.X = t.High.X - b.Radius
		return EdgeRight
	case b.Position.Y+b.Radius > t.High.Y:
		b.Velocity.Y = -b.Velocity.Y
		b.Position.Y = t.High.Y - b.Radius
		return EdgeTop
	case b.Position.X-b.Radius < t.Low.X:
		b.Velocity.X = -b.Velocity.X
		b.Position.X = t.Low.X + b.Radius
		return EdgeLeft
	case b.Position.Y-b.Radius < t.Low.Y:
		b.Velocity.Y = -b.Velocity.Y
		b.Position.Y = t.Low.Y + b.Radius
		return EdgeBottom
	}
	return EdgeNone
}
