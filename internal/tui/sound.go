package tui

import (
	"context"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/cuesim/internal/sim"
)

// Sound plays short tones for table events. A nil *Sound is silent.
type Sound struct {
	rate beep.SampleRate
}

func NewSound() (*Sound, error) {
	rate := beep.SampleRate(44100)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Sound{rate: rate}, nil
}

// PublishEvent makes Sound a sim.EventSink. Playback does not block the
// session goroutine.
func (s *Sound) PublishEvent(ctx context.Context, ev sim.Event) error {
	if s == nil {
		return nil
	}
	switch ev.Type {
	case sim.EventShot:
		s.tone(880, 40*time.Millisecond)
	case sim.EventPocketed:
		s.tone(220, 150*time.Millisecond)
	case sim.EventRack:
		s.tone(440, 60*time.Millisecond)
	}
	return nil
}

func (s *Sound) tone(freq float64, d time.Duration) {
	sine, err := generators.SineTone(s.rate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(s.rate.N(d), sine))
}

func (s *Sound) Close() {
	if s != nil {
		speaker.Close()
	}
}
