package physics

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func nearVec(a, b Vec2) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

// testSetup returns a 100x50 frictionless table with the four markers, a cue
// ball at (20,25) and any extra table balls, followed by the given pockets.
func testSetup(extra []Ball, pockets []Ball) Setup {
	balls := []Ball{
		{Position: NewVec2(-10, -10), Radius: 1, Mass: 1},
		{Position: NewVec2(-10, -20), Radius: 1, Mass: 1},
		{Position: NewVec2(20, 25), Radius: 1.125, Mass: 1},
		{Position: NewVec2(-30, -30), Radius: 0.5, Mass: 1},
		{Position: NewVec2(20, 25), Radius: 1.125, Mass: 6},
	}
	balls = append(balls, extra...)
	return Setup{
		Table: Table{
			Low:  NewVec2(0, 0),
			High: NewVec2(100, 50),
		},
		Elasticity:       ElasticityNormal,
		Power:            3,
		DisplayThreshold: 1,
		Balls:            balls,
		Pockets:          pockets,
	}
}

func newTestWorld(t *testing.T, extra []Ball, pockets []Ball) *World {
	t.Helper()
	w, err := NewWorld(testSetup(extra, pockets))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestNewWorldAssignsSlots(t *testing.T) {
	w := newTestWorld(t,
		[]Ball{{Position: NewVec2(60, 25), Radius: 1, Mass: 1}},
		[]Ball{{Position: NewVec2(0, 0), Radius: 2, Mass: 1000}},
	)

	if w.TableBalls != 6 || w.Pockets != 1 || len(w.Balls) != 7 {
		t.Fatalf("unexpected counts: table=%d pockets=%d total=%d", w.TableBalls, w.Pockets, len(w.Balls))
	}
	for i := 0; i < MarkerCount; i++ {
		if !w.Balls[i].IsIgnored {
			t.Errorf("marker %d should be ignored", i)
		}
	}
	if w.Cue().IsIgnored || w.Cue().IsPocket {
		t.Error("cue ball must be a physical ball")
	}
	if !w.Balls[6].IsPocket {
		t.Error("last slot should be a pocket")
	}
	if w.Balls[AimAnchorIndex].RestPosition != aimAnchorRest {
		t.Errorf("anchor rest = %+v, want %+v", w.Balls[AimAnchorIndex].RestPosition, aimAnchorRest)
	}
	if w.Balls[5].RestPosition != w.Balls[5].Position {
		t.Error("rest position should start at the configured position")
	}
}

func TestNewWorldRejectsInvalidSetups(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Setup)
		want   error
	}{
		{"zero radius", func(s *Setup) { s.Balls[4].Radius = 0 }, ErrInvalidBall},
		{"negative mass", func(s *Setup) { s.Balls[1].Mass = -1 }, ErrInvalidBall},
		{"pocket without radius", func(s *Setup) { s.Pockets = []Ball{{Mass: 1}} }, ErrInvalidBall},
		{"no cue slot", func(s *Setup) { s.Balls = s.Balls[:CueIndex] }, ErrNoCueBall},
		{"empty table", func(s *Setup) { s.Table.High = s.Table.Low }, ErrInvalidTable},
		{"negative friction", func(s *Setup) { s.Table.Friction = -0.1 }, ErrInvalidFriction},
		{"bad elasticity", func(s *Setup) { s.Elasticity = Elasticity(7) }, ErrInvalidElasticity},
		{"NaN radius", func(s *Setup) { s.Balls[CueIndex].Radius = math.NaN() }, ErrInvalidBall},
		{"NaN mass", func(s *Setup) { s.Balls[0].Mass = math.NaN() }, ErrInvalidBall},
		{"infinite pocket radius", func(s *Setup) {
			s.Pockets = []Ball{{Radius: math.Inf(1), Mass: 1000}}
		}, ErrInvalidBall},
		{"NaN position", func(s *Setup) { s.Balls[CueIndex].Position.X = math.NaN() }, ErrInvalidBall},
		{"infinite velocity", func(s *Setup) { s.Balls[2].Velocity.Y = math.Inf(-1) }, ErrInvalidBall},
		{"NaN table corner", func(s *Setup) { s.Table.High.X = math.NaN() }, ErrInvalidTable},
		{"infinite table corner", func(s *Setup) { s.Table.Low.Y = math.Inf(-1) }, ErrInvalidTable},
		{"NaN friction", func(s *Setup) { s.Table.Friction = math.NaN() }, ErrInvalidFriction},
		{"infinite friction", func(s *Setup) { s.Table.Friction = math.Inf(1) }, ErrInvalidFriction},
		{"power at cap", func(s *Setup) { s.Power = PowerCap }, ErrInvalidPower},
		{"power below floor", func(s *Setup) { s.Power = 0 }, ErrInvalidPower},
		{"too many balls", func(s *Setup) {
			for len(s.Balls) <= MaxBalls {
				s.Balls = append(s.Balls, Ball{Radius: 1, Mass: 1})
			}
		}, ErrTooManyBalls},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSetup(nil, nil)
			tt.mutate(&s)
			if _, err := NewWorld(s); !errors.Is(err, tt.want) {
				t.Errorf("NewWorld error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestElasticityFromCoefficient(t *testing.T) {
	for _, c := range []float64{0.5, 1.0, 1.5} {
		e, err := ElasticityFromCoefficient(c)
		if err != nil {
			t.Fatalf("coefficient %.1f: %v", c, err)
		}
		if e.Coefficient() != c {
			t.Errorf("round trip %.1f -> %.1f", c, e.Coefficient())
		}
	}
	if _, err := ElasticityFromCoefficient(0.9); !errors.Is(err, ErrInvalidElasticity) {
		t.Errorf("expected ErrInvalidElasticity for 0.9, got %v", err)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	w := newTestWorld(t, nil, nil)
	snap := w.Snapshot()
	snap.Balls[CueIndex].Position = NewVec2(1, 1)

	if w.Cue().Position == NewVec2(1, 1) {
		t.Error("mutating the snapshot changed the world")
	}
	if snap.Cue.State != CueResting || snap.Cue.Power != 3 {
		t.Errorf("unexpected cue view: %+v", snap.Cue)
	}
}
