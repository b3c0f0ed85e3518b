package physics

// Geometry tags how a renderer should draw a ball.
type Geometry string

const (
	GeometryDisc Geometry = "disc"
	GeometryRing Geometry = "ring"
)

// Color is an RGB triple with components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Ball is any circular entity on the table: a physical ball, a pocket, or an
// ignored aiming marker.
type Ball struct {
	Position     Vec2     `json:"position"`
	RestPosition Vec2     `json:"rest_position"`
	Velocity     Vec2     `json:"velocity"`
	Radius       float64  `json:"radius"`
	Mass         float64  `json:"mass"`
	Color        Color    `json:"color"`
	Geometry     Geometry `json:"geometry"`
	IsPocket     bool     `json:"is_pocket"`
	IsIgnored    bool     `json:"is_ignored"`
	HasBeenShot  bool     `json:"has_been_shot"`

	// Sunk is set when a pocket captured the ball. A sunk ball sits at its
	// sink position and stays out of play until it is racked.
	Sunk bool `json:"sunk"`
}

// Slots of the ball array. The first MarkerCount balls are aiming markers,
// followed by the cue ball and the rest of the table balls; pockets come last.
const (
	AimAnchorIndex = 2
	AimTargetIndex = 3
	MarkerCount    = 4
	CueIndex       = 4
	MaxBalls       = 100
)

// aimAnchorRest is where the anchor marker rests; it parks at the negation.
var aimAnchorRest = Vec2{X: -100, Y: -100}

// Respawn puts the ball back at its rest position, stopped.
func (b *Ball) Respawn() {
	b.Velocity = Vec2{}
	b.Position = b.RestPosition
	b.Sunk = false
}
