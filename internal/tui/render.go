package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/cuesim/internal/physics"
)

const (
	runeBall   = '●'
	runeRing   = '·'
	runePocket = ' '
)

// Renderer draws snapshots onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw paints the table, the balls and a status line, then shows the frame.
// It returns the viewport used so input can be mapped back to the table.
func (r *Renderer) Draw(snap physics.Snapshot, status string) Viewport {
	cols, rows := r.screen.Size()
	view := NewViewport(snap.Table, cols, rows)
	r.screen.Clear()

	tableStyle := tcell.StyleDefault.Background(rgb(snap.Table.Color))
	fringeStyle := tcell.StyleDefault.Background(rgb(snap.Table.FringeColor))
	for row := 0; row < view.rows; row++ {
		for col := 0; col < view.cols; col++ {
			p := view.ToTable(col, row)
			switch {
			case snap.Table.Contains(p):
				r.screen.SetContent(col, row, ' ', nil, tableStyle)
			case view.InFrame(p):
				r.screen.SetContent(col, row, ' ', nil, fringeStyle)
			}
		}
	}

	// Pockets first so balls passing over them stay visible; markers last.
	for _, b := range snap.Balls {
		if b.Pocket {
			r.drawDisc(view, b, runePocket, tableStyle.Background(tcell.ColorBlack))
		}
	}
	for _, b := range snap.Balls {
		if b.Pocket || b.Ignored || b.Sunk {
			continue
		}
		r.drawDisc(view, b, runeBall, tableStyle.Foreground(rgb(b.Color)))
	}
	for _, b := range snap.Balls {
		if !b.Ignored {
			continue
		}
		style := tableStyle.Foreground(rgb(b.Color))
		if b.Geometry == physics.GeometryRing {
			r.drawRing(view, b, style)
		} else {
			r.drawDisc(view, b, '+', style)
		}
	}

	r.drawStatus(rows-1, cols, statusLine(snap, status))
	r.screen.Show()
	return view
}

// drawDisc fills every cell whose centre lies inside the ball, and always
// the cell holding the ball's centre.
func (r *Renderer) drawDisc(view Viewport, b physics.BallView, ch rune, style tcell.Style) {
	minCol, minRow := view.ToScreen(b.Position.Plus(physics.NewVec2(-b.Radius, b.Radius)))
	maxCol, maxRow := view.ToScreen(b.Position.Plus(physics.NewVec2(b.Radius, -b.Radius)))
	r2 := b.Radius * b.Radius
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !view.Visible(col, row) {
				continue
			}
			if view.ToTable(col, row).Minus(b.Position).MagnitudeSquared() <= r2 {
				r.screen.SetContent(col, row, ch, nil, style)
			}
		}
	}
	if col, row := view.ToScreen(b.Position); view.Visible(col, row) {
		r.screen.SetContent(col, row, ch, nil, style)
	}
}

// drawRing marks cells within one column width of the circle outline.
func (r *Renderer) drawRing(view Viewport, b physics.BallView, style tcell.Style) {
	minCol, minRow := view.ToScreen(b.Position.Plus(physics.NewVec2(-b.Radius-view.scale, b.Radius+view.scale)))
	maxCol, maxRow := view.ToScreen(b.Position.Plus(physics.NewVec2(b.Radius+view.scale, -b.Radius-view.scale)))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !view.Visible(col, row) {
				continue
			}
			d := view.ToTable(col, row).Minus(b.Position).Magnitude()
			if d >= b.Radius-view.scale && d <= b.Radius+view.scale/2 {
				mainc, _, _, _ := r.screen.GetContent(col, row)
				if mainc == runeBall {
					continue
				}
				r.screen.SetContent(col, row, runeRing, nil, style)
			}
		}
	}
}

func (r *Renderer) drawStatus(row, cols int, text string) {
	style := tcell.StyleDefault.Reverse(true)
	for col := 0; col < cols; col++ {
		r.screen.SetContent(col, row, ' ', nil, style)
	}
	for i, ch := range []rune(text) {
		if i >= cols {
			break
		}
		r.screen.SetContent(i, row, ch, nil, style)
	}
}

func statusLine(snap physics.Snapshot, message string) string {
	elasticity := "normal"
	if e, err := physics.ElasticityFromCoefficient(snap.Cue.Elasticity); err == nil {
		elasticity = e.String()
	}
	line := fmt.Sprintf(" power %d | elasticity %s | cue %s | %s | tick %d",
		snap.Cue.Power, elasticity, snap.Cue.Size, snap.Cue.State, snap.Tick)
	if message != "" {
		line += " | " + message
	}
	return line
}

func rgb(c physics.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int32(v*255 + 0.5)
}
