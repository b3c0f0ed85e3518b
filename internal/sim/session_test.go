package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/cuesim/internal/layout"
	"github.com/playmatatu/cuesim/internal/physics"
)

type recorder struct {
	mu        sync.Mutex
	events    []Event
	snapshots []physics.Snapshot
}

func (r *recorder) PublishEvent(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) PublishSnapshot(ctx context.Context, tableID string, snap physics.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snap)
	return nil
}

func (r *recorder) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []string
	for _, ev := range r.events {
		types = append(types, ev.Type)
	}
	return types
}

// testWorld builds a 100x50 table with the marker slots, a cue ball resting
// at (20,25) and the given extra balls and pockets.
func testWorld(t *testing.T, friction float64, extra, pockets []physics.Ball) *physics.World {
	t.Helper()
	balls := []physics.Ball{
		{Position: physics.NewVec2(-10, -10), Radius: 1, Mass: 1},
		{Position: physics.NewVec2(-10, -20), Radius: 1, Mass: 1},
		{Position: physics.NewVec2(20, 25), Radius: 2, Mass: 1},
		{Position: physics.NewVec2(-30, -30), Radius: 0.5, Mass: 1},
		{Position: physics.NewVec2(20, 25), Radius: 1.125, Mass: 6},
	}
	w, err := physics.NewWorld(physics.Setup{
		Table:            physics.Table{High: physics.NewVec2(100, 50), Friction: friction},
		Elasticity:       physics.ElasticityNormal,
		Power:            3,
		DisplayThreshold: 1,
		Balls:            append(balls, extra...),
		Pockets:          pockets,
	})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func startSession(t *testing.T, s *Session) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	t.Cleanup(cancelFn)
	return cancelFn, errCh
}

func TestSubmitAppliesCommandAndPublishes(t *testing.T) {
	w, err := layout.Default().Build(0)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession("main", w, time.Millisecond)
	startSession(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := s.Submit(ctx, Command{Name: CmdPowerUp})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Applied || res.Power != 4 || res.Message != "The power level is 4" {
		t.Errorf("unexpected result: %+v", res)
	}
	if got := s.Snapshot().Cue.Power; got != 4 {
		t.Errorf("snapshot power = %d, want 4", got)
	}
}

func TestSubmitRejectsUnknownCommand(t *testing.T) {
	s := NewSession("main", testWorld(t, 0, nil, nil), time.Millisecond)
	if _, err := s.Submit(context.Background(), Command{Name: "jump"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error = %v, want ErrUnknownCommand", err)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	s := NewSession("main", testWorld(t, 0, nil, nil), time.Millisecond)
	cancel, done := startSession(t, s)

	if _, err := s.Submit(context.Background(), Command{Name: CmdRack}); err != nil {
		t.Fatalf("Submit while running: %v", err)
	}
	if err := s.Run(context.Background()); err == nil {
		t.Error("second Run should fail")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	if _, err := s.Submit(context.Background(), Command{Name: CmdRack}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("error = %v, want ErrSessionClosed", err)
	}
}

func TestShotEmitsEvent(t *testing.T) {
	s := NewSession("main", testWorld(t, 0, nil, nil), time.Millisecond)
	rec := &recorder{}
	s.AddEventSink(rec)
	ctx := context.Background()

	if res := s.apply(ctx, Command{Name: CmdAim, X: 19, Y: 25}); !res.Applied {
		t.Fatalf("aim refused: %+v", res)
	}
	res := s.apply(ctx, Command{Name: CmdShoot})
	if !res.Applied || res.State != physics.CueInFlight {
		t.Fatalf("shoot result: %+v", res)
	}
	if res := s.apply(ctx, Command{Name: CmdShoot}); res.Applied {
		t.Error("second shot should be refused")
	}

	if len(rec.events) != 1 || rec.events[0].Type != EventShot {
		t.Fatalf("events = %v, want one shot", rec.eventTypes())
	}
	data, ok := rec.events[0].Data.(ShotData)
	if !ok {
		t.Fatalf("shot payload has type %T", rec.events[0].Data)
	}
	if data.Power != 3 || data.Aim != physics.NewVec2(1, 0) || data.Velocity != physics.NewVec2(3, 0) {
		t.Errorf("unexpected shot data: %+v", data)
	}
	if rec.events[0].TableID != "main" {
		t.Errorf("event table = %q", rec.events[0].TableID)
	}
}

func TestToggleResults(t *testing.T) {
	s := NewSession("main", testWorld(t, 0, nil, nil), time.Millisecond)
	ctx := context.Background()

	tests := []struct {
		cmd     CommandName
		applied bool
		message string
	}{
		{CmdElasticityUp, true, "Elasticity is raised"},
		{CmdElasticityUp, false, "Elasticity is raised"},
		{CmdElasticityDown, true, "Elasticity is normal"},
		{CmdCueSizeUp, true, "Cue ball size is raised"},
		{CmdCueSizeDown, true, "Cue ball size is normal"},
		{CmdPowerDown, true, "The power level is 2"},
		{CmdPowerDown, true, "The power level is 1"},
		{CmdPowerDown, false, "The power level is 1"},
		{CmdMoveForward, false, ""},
		{CmdMoveBack, true, ""},
	}
	for i, tt := range tests {
		res := s.apply(ctx, Command{Name: tt.cmd})
		if res.Applied != tt.applied || res.Message != tt.message {
			t.Errorf("step %d %s: applied=%v message=%q, want %v %q", i, tt.cmd, res.Applied, res.Message, tt.applied, tt.message)
		}
	}
}

func TestCueSizeFromCustomRadiusReportsChange(t *testing.T) {
	w := testWorld(t, 0, nil, nil)
	w.Cue().Radius = 2
	w.Cue().Mass = 3
	s := NewSession("main", w, time.Millisecond)
	rec := &recorder{}
	s.AddEventSink(rec)

	res := s.apply(context.Background(), Command{Name: CmdCueSizeDown})
	if !res.Applied {
		t.Error("resizing a custom cue ball to the normal preset should count as applied")
	}
	if w.Cue().Radius != physics.CueSizeNormal.Radius() || w.Cue().Mass != physics.CueSizeNormal.Mass() {
		t.Errorf("cue ball r=%.3f m=%.1f, want the normal preset", w.Cue().Radius, w.Cue().Mass)
	}
	if types := rec.eventTypes(); len(types) != 1 || types[0] != EventCueSize {
		t.Errorf("events = %v, want [%s]", types, EventCueSize)
	}

	if res := s.apply(context.Background(), Command{Name: CmdCueSizeDown}); res.Applied {
		t.Error("second resize to the same preset should not count as applied")
	}
}

func TestAdvanceClampsLongGaps(t *testing.T) {
	w := testWorld(t, 0, nil, nil)
	w.Cue().Velocity = physics.NewVec2(10, 0)
	s := NewSession("main", w, time.Millisecond)

	s.advance(context.Background(), time.Hour)

	if want := 20 + 10*maxTickGap.Seconds(); w.Cue().Position.X != want {
		t.Errorf("cue x = %.4f, want %.4f after a stalled tick", w.Cue().Position.X, want)
	}
}

func TestAdvancePublishesEveryDisplayThreshold(t *testing.T) {
	w := testWorld(t, 0, nil, nil)
	w.DisplayThreshold = 3
	s := NewSession("main", w, time.Millisecond)
	rec := &recorder{}
	s.AddSnapshotSink(rec)

	for i := 0; i < 7; i++ {
		s.advance(context.Background(), time.Millisecond)
	}
	if len(rec.snapshots) != 2 {
		t.Fatalf("published %d snapshots, want 2", len(rec.snapshots))
	}
	if rec.snapshots[0].Tick != 3 || rec.snapshots[1].Tick != 6 {
		t.Errorf("published ticks %d and %d, want 3 and 6", rec.snapshots[0].Tick, rec.snapshots[1].Tick)
	}
	if s.Snapshot().Tick != 6 {
		t.Errorf("session snapshot tick = %d", s.Snapshot().Tick)
	}
}

func TestAdvanceEmitsPocketedEvent(t *testing.T) {
	w := testWorld(t, 0,
		[]physics.Ball{{Position: physics.NewVec2(97, 47), Velocity: physics.NewVec2(4, 4), Radius: 1, Mass: 1}},
		[]physics.Ball{{Position: physics.NewVec2(100, 50), Radius: 2, Mass: 1000}},
	)
	s := NewSession("main", w, time.Millisecond)
	rec := &recorder{}
	s.AddEventSink(rec)

	s.advance(context.Background(), 500*time.Millisecond)

	if len(rec.events) != 1 || rec.events[0].Type != EventPocketed {
		t.Fatalf("events = %v, want one pocketed", rec.eventTypes())
	}
	if data := rec.events[0].Data.(PocketedData); data.Ball != 5 {
		t.Errorf("pocketed ball = %d, want 5", data.Ball)
	}
}

func TestAdvanceEmitsStoppedOnce(t *testing.T) {
	w := testWorld(t, 10, nil, nil)
	s := NewSession("main", w, time.Millisecond)
	rec := &recorder{}
	s.AddEventSink(rec)
	ctx := context.Background()

	w.Cue().Velocity = physics.NewVec2(2, 0)
	s.advance(ctx, 10*time.Millisecond)
	if len(rec.events) != 0 {
		t.Fatalf("unexpected events while moving: %v", rec.eventTypes())
	}

	s.advance(ctx, 200*time.Millisecond)
	s.advance(ctx, 200*time.Millisecond)
	if types := rec.eventTypes(); len(types) != 1 || types[0] != EventStopped {
		t.Errorf("events = %v, want a single stopped", types)
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"name":"aim","x":3.5,"y":-1}`))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Name != CmdAim || cmd.X != 3.5 || cmd.Y != -1 {
		t.Errorf("unexpected command %+v", cmd)
	}

	if _, err := ParseCommand([]byte(`{"name":"teleport"}`)); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error = %v, want ErrUnknownCommand", err)
	}
	if _, err := ParseCommand([]byte(`not json`)); err == nil {
		t.Error("expected a decode error")
	}
}
