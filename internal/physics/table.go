package physics

// Table is the playfield rectangle and its surface properties. Colors and
// the fringe only matter to renderers.
type Table struct {
	Low         Vec2    `json:"low"`
	High        Vec2    `json:"high"`
	Friction    float64 `json:"friction"`
	Color       Color   `json:"color"`
	FringeWidth float64 `json:"fringe_width"`
	FringeColor Color   `json:"fringe_color"`
}

func (t Table) Width() float64 {
	return t.High.X - t.Low.X
}

func (t Table) Height() float64 {
	return t.High.Y - t.Low.Y
}

// Contains reports whether p lies on the table, edges included.
func (t Table) Contains(p Vec2) bool {
	return p.X >= t.Low.X && p.X <= t.High.X && p.Y >= t.Low.Y && p.Y <= t.High.Y
}

// Elasticity is the three-step collision restitution setting.
type Elasticity int

const (
	ElasticityLow Elasticity = iota
	ElasticityNormal
	ElasticityHigh
)

var elasticityCoefficients = [...]float64{0.5, 1.0, 1.5}

// Coefficient is the restitution used by the collision resolver. High is
// above 1 on purpose: it pumps energy into collisions as a gameplay setting.
func (e Elasticity) Coefficient() float64 {
	return elasticityCoefficients[e]
}

func (e Elasticity) String() string {
	switch e {
	case ElasticityLow:
		return "lowered"
	case ElasticityHigh:
		return "raised"
	default:
		return "normal"
	}
}

func (e Elasticity) valid() bool {
	return e >= ElasticityLow && e <= ElasticityHigh
}

// ElasticityFromCoefficient maps a configured coefficient onto its step.
func ElasticityFromCoefficient(c float64) (Elasticity, error) {
	for i, v := range elasticityCoefficients {
		if c == v {
			return Elasticity(i), nil
		}
	}
	return ElasticityNormal, ErrInvalidElasticity
}

// CueSize is the two-preset cue ball size toggle.
type CueSize int

const (
	CueSizeNormal CueSize = iota
	CueSizeLarge
)

func (s CueSize) Radius() float64 {
	if s == CueSizeLarge {
		return 5.125
	}
	return 1.125
}

func (s CueSize) Mass() float64 {
	if s == CueSizeLarge {
		return 10.0
	}
	return 6.0
}

func (s CueSize) String() string {
	if s == CueSizeLarge {
		return "raised"
	}
	return "normal"
}
