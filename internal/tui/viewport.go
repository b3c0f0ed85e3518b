package tui

import (
	"math"

	"github.com/playmatatu/cuesim/internal/physics"
)

// cellAspect is how many columns make up the height of one row.
const cellAspect = 2.0

// Viewport maps table coordinates onto terminal cells. The table y axis
// points up; rows count down. The last screen row is kept for the status line.
type Viewport struct {
	low, high physics.Vec2
	scale     float64 // table units per column
	cols      int
	rows      int
}

// NewViewport fits the table and its fringe into a cols x rows screen.
func NewViewport(t physics.Table, cols, rows int) Viewport {
	fringe := physics.NewVec2(t.FringeWidth, t.FringeWidth)
	v := Viewport{
		low:  t.Low.Minus(fringe),
		high: t.High.Plus(fringe),
		cols: cols,
		rows: rows - 1,
	}
	if v.cols < 1 {
		v.cols = 1
	}
	if v.rows < 1 {
		v.rows = 1
	}
	w := v.high.X - v.low.X
	h := v.high.Y - v.low.Y
	v.scale = math.Max(w/float64(v.cols), h/(float64(v.rows)*cellAspect))
	return v
}

// ToScreen returns the cell containing p.
func (v Viewport) ToScreen(p physics.Vec2) (int, int) {
	col := int(math.Floor((p.X - v.low.X) / v.scale))
	row := int(math.Floor((v.high.Y - p.Y) / (v.scale * cellAspect)))
	return col, row
}

// ToTable returns the table point at the centre of a cell.
func (v Viewport) ToTable(col, row int) physics.Vec2 {
	return physics.NewVec2(
		v.low.X+(float64(col)+0.5)*v.scale,
		v.high.Y-(float64(row)+0.5)*v.scale*cellAspect,
	)
}

// Visible reports whether a cell lies in the drawing area.
func (v Viewport) Visible(col, row int) bool {
	return col >= 0 && col < v.cols && row >= 0 && row < v.rows
}

// InFrame reports whether p lies on the table or its fringe.
func (v Viewport) InFrame(p physics.Vec2) bool {
	return p.X >= v.low.X && p.X <= v.high.X && p.Y >= v.low.Y && p.Y <= v.high.Y
}
