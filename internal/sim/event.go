package sim

import (
	"context"

	"github.com/playmatatu/cuesim/internal/physics"
)

// Event types.
const (
	EventShot       = "shot"
	EventPocketed   = "pocketed"
	EventStopped    = "stopped"
	EventRack       = "rack"
	EventRackCue    = "rack_cue"
	EventPower      = "power"
	EventElasticity = "elasticity"
	EventCueSize    = "cue_size"
)

// Event is a notable change on a table, fanned out to event sinks.
type Event struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
	Tick    uint64 `json:"tick"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ShotData is the payload of a shot event.
type ShotData struct {
	Power      int          `json:"power"`
	Aim        physics.Vec2 `json:"aim"`
	Velocity   physics.Vec2 `json:"velocity"`
	Elasticity string       `json:"elasticity"`
	CueSize    string       `json:"cue_size"`
}

// PocketedData is the payload of a pocketed event.
type PocketedData struct {
	Ball int `json:"ball"`
}

// SnapshotSink receives snapshots as they are published.
type SnapshotSink interface {
	PublishSnapshot(ctx context.Context, tableID string, snap physics.Snapshot) error
}

// EventSink receives table events.
type EventSink interface {
	PublishEvent(ctx context.Context, ev Event) error
}
