package sim

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playmatatu/cuesim/internal/physics"
)

const maxTickGap = 250 * time.Millisecond

type request struct {
	cmd   Command
	reply chan Result
}

// Session owns a world and drives it from a single goroutine. Commands are
// queued through Submit and applied between ticks; readers get the last
// published snapshot.
type Session struct {
	tableID  string
	world    *physics.World
	interval time.Duration

	requests chan request
	done     chan struct{}
	running  sync.Once
	started  atomic.Bool

	mu       sync.RWMutex
	snapshot physics.Snapshot

	snapshotSinks []SnapshotSink
	eventSinks    []EventSink

	// moving is only touched by the Run goroutine.
	moving bool
}

func NewSession(tableID string, w *physics.World, interval time.Duration) *Session {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Session{
		tableID:  tableID,
		world:    w,
		interval: interval,
		requests: make(chan request),
		done:     make(chan struct{}),
		snapshot: w.Snapshot(),
	}
}

// AddSnapshotSink and AddEventSink must be called before Run.
func (s *Session) AddSnapshotSink(sink SnapshotSink) {
	s.snapshotSinks = append(s.snapshotSinks, sink)
}

func (s *Session) AddEventSink(sink EventSink) {
	s.eventSinks = append(s.eventSinks, sink)
}

func (s *Session) TableID() string { return s.tableID }

// Snapshot returns the last published snapshot.
func (s *Session) Snapshot() physics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run ticks the world until ctx is cancelled. It may only be called once.
func (s *Session) Run(ctx context.Context) error {
	started := false
	s.running.Do(func() { started = true })
	if !started {
		return fmt.Errorf("session %s: already running", s.tableID)
	}
	s.started.Store(true)
	defer close(s.done)

	log.Printf("[SIM] Table %s running (tick=%v, display threshold=%d)", s.tableID, s.interval, s.world.DisplayThreshold)
	s.publish(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[SIM] Table %s stopped at tick %d", s.tableID, s.world.Tick())
			return ctx.Err()

		case req := <-s.requests:
			res := s.apply(ctx, req.cmd)
			s.publish(ctx)
			req.reply <- res

		case now := <-ticker.C:
			s.advance(ctx, now.Sub(last))
			last = now
		}
	}
}

// Running reports whether Run has started and not yet returned.
func (s *Session) Running() bool {
	if !s.started.Load() {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Submit queues a command and waits for its result. It fails with
// ErrSessionClosed once Run has returned.
func (s *Session) Submit(ctx context.Context, cmd Command) (Result, error) {
	if !cmd.Name.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}

	req := request{cmd: cmd, reply: make(chan Result, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return Result{}, ErrSessionClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// advance runs one tick and publishes every DisplayThreshold ticks. A gap
// longer than maxTickGap (a stalled host) is simulated as maxTickGap.
func (s *Session) advance(ctx context.Context, dt time.Duration) {
	if dt > maxTickGap {
		dt = maxTickGap
	}
	report := s.world.Step(dt)

	for _, i := range report.Pocketed {
		s.emit(ctx, Event{
			Type:    EventPocketed,
			Message: fmt.Sprintf("Ball %d pocketed", i),
			Data:    PocketedData{Ball: i},
		})
	}
	if s.moving && report.Stopped {
		s.emit(ctx, Event{Type: EventStopped, Message: "All balls at rest"})
	}
	s.moving = !report.Stopped

	if report.Tick%uint64(s.world.DisplayThreshold) == 0 {
		s.publish(ctx)
	}
}

func (s *Session) apply(ctx context.Context, cmd Command) Result {
	w := s.world
	res := Result{Command: cmd.Name}

	switch cmd.Name {
	case CmdShoot:
		aim, power := w.AimVector(), w.Power()
		if res.Applied = w.Shoot(); res.Applied {
			data := ShotData{
				Power:      power,
				Aim:        aim,
				Velocity:   w.Cue().Velocity,
				Elasticity: w.Elasticity().String(),
				CueSize:    w.CueSize().String(),
			}
			log.Printf("[SIM] Table %s shot: power=%d aim=(%.2f, %.2f)", s.tableID, power, aim.X, aim.Y)
			s.emit(ctx, Event{Type: EventShot, Data: data})
		}

	case CmdRack:
		w.Rack()
		res.Applied = true
		res.Message = "Table racked"
		s.emit(ctx, Event{Type: EventRack, Message: res.Message})

	case CmdRackCue:
		w.RackCue()
		res.Applied = true
		res.Message = "Cue ball racked"
		s.emit(ctx, Event{Type: EventRackCue, Message: res.Message})

	case CmdPowerUp, CmdPowerDown:
		delta := 1
		if cmd.Name == CmdPowerDown {
			delta = -1
		}
		before := w.Power()
		after := w.AdjustPower(delta)
		res.Applied = after != before
		res.Message = fmt.Sprintf("The power level is %d", after)
		log.Printf("[SIM] %s", res.Message)
		if res.Applied {
			s.emit(ctx, Event{Type: EventPower, Message: res.Message, Data: after})
		}

	case CmdElasticityUp, CmdElasticityDown:
		before := w.Elasticity()
		after := w.AdjustElasticity(cmd.Name == CmdElasticityUp)
		res.Applied = after != before
		res.Message = fmt.Sprintf("Elasticity is %s", after)
		log.Printf("[SIM] %s", res.Message)
		if res.Applied {
			s.emit(ctx, Event{Type: EventElasticity, Message: res.Message, Data: after.Coefficient()})
		}

	case CmdCueSizeUp, CmdCueSizeDown:
		before := *w.Cue()
		after := w.AdjustCueBallSize(cmd.Name == CmdCueSizeUp)
		res.Applied = w.Cue().Radius != before.Radius || w.Cue().Mass != before.Mass
		res.Message = fmt.Sprintf("Cue ball size is %s", after)
		log.Printf("[SIM] %s", res.Message)
		if res.Applied {
			s.emit(ctx, Event{Type: EventCueSize, Message: res.Message, Data: after.String()})
		}

	case CmdAim:
		res.Applied = w.Aim(physics.NewVec2(cmd.X, cmd.Y))

	default:
		if dir, ok := moves[cmd.Name]; ok {
			res.Applied = w.MoveCue(dir)
		}
	}

	res.Tick = w.Tick()
	res.State = w.State()
	res.Power = w.Power()
	res.Elasticity = w.Elasticity().String()
	res.CueSize = w.CueSize().String()
	return res
}

func (s *Session) publish(ctx context.Context) {
	snap := s.world.Snapshot()
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	for _, sink := range s.snapshotSinks {
		if err := sink.PublishSnapshot(ctx, s.tableID, snap); err != nil {
			log.Printf("[SIM] Table %s snapshot sink failed: %v", s.tableID, err)
		}
	}
}

func (s *Session) emit(ctx context.Context, ev Event) {
	ev.TableID = s.tableID
	ev.Tick = s.world.Tick()
	for _, sink := range s.eventSinks {
		if err := sink.PublishEvent(ctx, ev); err != nil {
			log.Printf("[SIM] Table %s event %s not delivered: %v", s.tableID, ev.Type, err)
		}
	}
}
