package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/cuesim/internal/physics"
	"github.com/playmatatu/cuesim/internal/sim"
)

const frameInterval = 33 * time.Millisecond

// Table is the session the client drives.
type Table interface {
	Snapshot() physics.Snapshot
	Submit(ctx context.Context, cmd sim.Command) (sim.Result, error)
}

// App is the interactive terminal client: it draws the table and turns key
// presses and mouse clicks into commands.
type App struct {
	screen   tcell.Screen
	table    Table
	renderer *Renderer
	view     Viewport
	status   string
}

// NewApp takes an initialised screen. The caller owns Fini.
func NewApp(screen tcell.Screen, table Table) *App {
	return &App{
		screen:   screen,
		table:    table,
		renderer: NewRenderer(screen),
		status:   "space shoot, click the aim circle, +/- power, r rack, esc quit",
	}
}

// Run draws frames and handles input until Esc or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	a.draw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok || !a.handleEvent(ctx, ev) {
				return nil
			}

		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *App) draw() {
	a.view = a.renderer.Draw(a.table.Snapshot(), a.status)
}

// handleEvent returns false when the client should quit.
func (a *App) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd, action := MapKey(ev)
		switch action {
		case KeyQuit:
			return false
		case KeyCommand:
			a.submit(ctx, cmd)
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			col, row := ev.Position()
			a.click(ctx, col, row)
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.draw()
	}
	return true
}

// click aims from the anchor marker when the click lands inside it.
func (a *App) click(ctx context.Context, col, row int) {
	snap := a.table.Snapshot()
	if len(snap.Balls) <= physics.AimAnchorIndex {
		return
	}
	target := a.view.ToTable(col, row)
	anchor := snap.Balls[physics.AimAnchorIndex]
	if target.Minus(anchor.Position).Magnitude() > anchor.Radius {
		a.status = "click inside the aim circle"
		return
	}
	a.submit(ctx, sim.Command{Name: sim.CmdAim, X: target.X, Y: target.Y})
}

func (a *App) submit(ctx context.Context, cmd sim.Command) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	res, err := a.table.Submit(ctx, cmd)
	switch {
	case errors.Is(err, sim.ErrSessionClosed):
		a.status = "table stopped"
	case err != nil:
		a.status = err.Error()
	case res.Message != "":
		a.status = res.Message
	case res.Applied:
		a.status = string(cmd.Name)
	default:
		a.status = fmt.Sprintf("%s refused (%s)", cmd.Name, res.State)
	}
	a.draw()
}
