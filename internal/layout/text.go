package layout

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/playmatatu/cuesim/internal/physics"
)

// ParseText reads the whitespace-separated layout format:
//
//	displayThreshold
//	llx lly urx ury
//	tableR tableG tableB
//	fringeWidth
//	fringeR fringeG fringeB
//	elasticity friction power
//	numBalls, then per ball: mass radius r g b x y z vx vy z
//	numPockets, then the same record per pocket
//
// Line breaks are not significant. A '#' starts a comment that runs to the end
// of the line. The z components are read and discarded.
func ParseText(r io.Reader) (*Layout, error) {
	t, err := tokenize(r)
	if err != nil {
		return nil, err
	}

	l := &Layout{}
	l.DisplayThreshold = t.int("display threshold")
	l.Low = t.vec("lower-left corner")
	l.High = t.vec("upper-right corner")
	l.TableColor = t.color("table color")
	l.FringeWidth = t.float("fringe width")
	l.FringeColor = t.color("fringe color")
	l.Elasticity = t.float("elasticity")
	l.Friction = t.float("friction")
	l.Power = t.int("power")
	l.Balls = t.records("ball")
	l.Pockets = t.records("pocket")

	if t.err != nil {
		return nil, t.err
	}
	if rest := len(t.words) - t.pos; rest > 0 {
		return nil, fmt.Errorf("%w: %d trailing values after the pockets", ErrMalformed, rest)
	}
	return l, nil
}

type tokens struct {
	words []string
	pos   int
	err   error
}

func tokenize(r io.Reader) (*tokens, error) {
	t := &tokens{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.words = append(t.words, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return t, nil
}

func (t *tokens) float(field string) float64 {
	if t.err != nil {
		return 0
	}
	if t.pos >= len(t.words) {
		t.err = fmt.Errorf("%w: unexpected end of input reading %s", ErrMalformed, field)
		return 0
	}
	word := t.words[t.pos]
	t.pos++
	v, err := strconv.ParseFloat(word, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		t.err = fmt.Errorf("%w: %s: value %d %q is not a finite number", ErrMalformed, field, t.pos, word)
		return 0
	}
	return v
}

// int accepts "3" as well as "3.0"; the fraction is dropped.
func (t *tokens) int(field string) int {
	return int(t.float(field))
}

func (t *tokens) vec(field string) physics.Vec2 {
	x := t.float(field)
	y := t.float(field)
	return physics.NewVec2(x, y)
}

func (t *tokens) color(field string) physics.Color {
	return physics.Color{R: t.float(field), G: t.float(field), B: t.float(field)}
}

func (t *tokens) records(kind string) []BallSpec {
	n := t.int(kind + " count")
	if t.err != nil {
		return nil
	}
	if n < 0 || n > physics.MaxBalls {
		t.err = fmt.Errorf("%w: %s count %d out of range", ErrMalformed, kind, n)
		return nil
	}

	specs := make([]BallSpec, 0, n)
	for i := 0; i < n && t.err == nil; i++ {
		field := fmt.Sprintf("%s %d", kind, i)
		var s BallSpec
		s.Mass = t.float(field + " mass")
		s.Radius = t.float(field + " radius")
		s.Color = t.color(field + " color")
		s.Position = t.vec(field + " position")
		t.float(field + " z")
		s.Velocity = t.vec(field + " velocity")
		t.float(field + " velocity z")
		specs = append(specs, s)
	}
	return specs
}
