package physics

import "time"

// MaxSubsteps caps how many sub-steps one Step may run.
const MaxSubsteps = 64

// ContactEvent records one resolved pair during a tick.
type ContactEvent struct {
	A    int     `json:"a"`
	B    int     `json:"b"`
	Kind Contact `json:"kind"`
}

// Bounce records a ball pushed back from a table edge.
type Bounce struct {
	Ball int  `json:"ball"`
	Edge Edge `json:"edge"`
}

// StepReport summarises what happened during one call to Step.
type StepReport struct {
	Tick     uint64         `json:"tick"`
	Substeps int            `json:"substeps"`
	Contacts []ContactEvent `json:"contacts,omitempty"`
	Pocketed []int          `json:"pocketed,omitempty"`
	Bounces  []Bounce       `json:"bounces,omitempty"`
	Stopped  bool           `json:"stopped"`
}

// Step advances the simulation by dt: integrate, resolve every overlapping
// pair in ascending index order, reflect table balls off the edges, then
// update the aim marker. Negative durations count as zero.
//
// Detection is discrete: a ball fast enough to cross another ball or an
// edge within one tick can pass through it. MaxSubstep bounds that by
// splitting long ticks, up to MaxSubsteps per tick.
func (w *World) Step(dt time.Duration) StepReport {
	if dt < 0 {
		dt = 0
	}
	n := 1
	if w.MaxSubstep > 0 && dt > w.MaxSubstep {
		n = int((dt + w.MaxSubstep - 1) / w.MaxSubstep)
		if n > MaxSubsteps {
			n = MaxSubsteps
		}
	}
	sub := dt.Seconds() / float64(n)

	report := StepReport{Substeps: n}
	for s := 0; s < n; s++ {
		w.advance(sub, &report)
	}
	w.trackAimMarker()

	w.tick++
	report.Tick = w.tick
	report.Stopped = w.Stopped()
	return report
}

func (w *World) advance(dt float64, report *StepReport) {
	Integrate(w.Balls, w.Table.Friction, dt)
	w.collide(report)
	w.reflect(report)
}

// collide tests every unordered pair once. A ball resolved against several
// others in the same pass sees the state left by the earlier pairs.
func (w *World) collide(report *StepReport) {
	e := w.elasticity.Coefficient()
	for j := 0; j < len(w.Balls); j++ {
		for k := j + 1; k < len(w.Balls); k++ {
			if !w.inPlay(j) {
				break
			}
			if !w.inPlay(k) {
				continue
			}
			a, b := &w.Balls[j], &w.Balls[k]
			if a.IsPocket && b.IsPocket {
				continue
			}
			if !Overlaps(a, b) {
				continue
			}
			kind := ResolveContact(w.Balls, j, k, e)
			report.Contacts = append(report.Contacts, ContactEvent{A: j, B: k, Kind: kind})
			if kind == ContactPocketed {
				if a.IsPocket {
					report.Pocketed = append(report.Pocketed, k)
				} else {
					report.Pocketed = append(report.Pocketed, j)
				}
			}
		}
	}
}

func (w *World) reflect(report *StepReport) {
	for j := 0; j < w.TableBalls; j++ {
		if !w.inPlay(j) {
			continue
		}
		if edge := Reflect(&w.Balls[j], w.Table); edge != EdgeNone {
			report.Bounces = append(report.Bounces, Bounce{Ball: j, Edge: edge})
		}
	}
}
