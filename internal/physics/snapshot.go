package physics

// BallView is the read-only rendering view of one ball.
type BallView struct {
	Index    int      `json:"index"`
	Position Vec2     `json:"position"`
	Radius   float64  `json:"radius"`
	Color    Color    `json:"color"`
	Geometry Geometry `json:"geometry"`
	Pocket   bool     `json:"pocket"`
	Ignored  bool     `json:"ignored"`
	Sunk     bool     `json:"sunk"`
}

// CueView describes the cue controller for display.
type CueView struct {
	State       CueState `json:"state"`
	Power       int      `json:"power"`
	Aim         Vec2     `json:"aim"`
	Elasticity  float64  `json:"elasticity"`
	Size        string   `json:"size"`
	HasBeenShot bool     `json:"has_been_shot"`
}

// Snapshot is a copy of the world taken between ticks. It shares no memory
// with the world, so it may be handed to other goroutines.
type Snapshot struct {
	Tick    uint64     `json:"tick"`
	Table   Table      `json:"table"`
	Balls   []BallView `json:"balls"`
	Cue     CueView    `json:"cue"`
	Stopped bool       `json:"stopped"`
}

func (w *World) Snapshot() Snapshot {
	views := make([]BallView, len(w.Balls))
	for i := range w.Balls {
		b := &w.Balls[i]
		views[i] = BallView{
			Index:    i,
			Position: b.Position,
			Radius:   b.Radius,
			Color:    b.Color,
			Geometry: b.Geometry,
			Pocket:   b.IsPocket,
			Ignored:  b.IsIgnored,
			Sunk:     b.Sunk,
		}
	}
	cue := w.Cue()
	return Snapshot{
		Tick:  w.tick,
		Table: w.Table,
		Balls: views,
		Cue: CueView{
			State:       w.State(),
			Power:       w.power,
			Aim:         w.aim,
			Elasticity:  w.elasticity.Coefficient(),
			Size:        w.cueSize.String(),
			HasBeenShot: cue.HasBeenShot,
		},
		Stopped: w.Stopped(),
	}
}
