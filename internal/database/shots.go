package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/cuesim/internal/sim"
)

// Shot is one row of the shot_log table.
type Shot struct {
	ID         int64     `db:"id" json:"id"`
	TableID    string    `db:"table_id" json:"table_id"`
	Tick       int64     `db:"tick" json:"tick"`
	Power      int       `db:"power" json:"power"`
	AimX       float64   `db:"aim_x" json:"aim_x"`
	AimY       float64   `db:"aim_y" json:"aim_y"`
	Elasticity string    `db:"elasticity" json:"elasticity"`
	CueSize    string    `db:"cue_size" json:"cue_size"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ShotLog is an audit trail of the shoot commands an operator issued. It
// stores the command settings only; ball positions and trajectories are not
// kept, and a table cannot be replayed from it.
type ShotLog struct {
	db *sqlx.DB
}

func NewShotLog(db *sqlx.DB) *ShotLog {
	return &ShotLog{db: db}
}

// Record appends a shot. ID and CreatedAt are assigned by the database.
func (l *ShotLog) Record(ctx context.Context, s Shot) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO shot_log (table_id, tick, power, aim_x, aim_y, elasticity, cue_size)
		VALUES (:table_id, :tick, :power, :aim_x, :aim_y, :elasticity, :cue_size)`, s)
	if err != nil {
		return fmt.Errorf("record shot: %w", err)
	}
	return nil
}

// Recent returns up to limit shots for a table, newest first.
func (l *ShotLog) Recent(ctx context.Context, tableID string, limit int) ([]Shot, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var shots []Shot
	err := l.db.SelectContext(ctx, &shots, `
		SELECT id, table_id, tick, power, aim_x, aim_y, elasticity, cue_size, created_at
		FROM shot_log WHERE table_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent shots: %w", err)
	}
	return shots, nil
}

// PublishEvent records shot events and ignores the rest, so the log can be
// registered as a session event sink.
func (l *ShotLog) PublishEvent(ctx context.Context, ev sim.Event) error {
	if ev.Type != sim.EventShot {
		return nil
	}
	data, ok := ev.Data.(sim.ShotData)
	if !ok {
		return fmt.Errorf("shot event carries %T", ev.Data)
	}
	return l.Record(ctx, Shot{
		TableID:    ev.TableID,
		Tick:       int64(ev.Tick),
		Power:      data.Power,
		AimX:       data.Aim.X,
		AimY:       data.Aim.Y,
		Elasticity: data.Elasticity,
		CueSize:    data.CueSize,
	})
}
