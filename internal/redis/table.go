package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playmatatu/cuesim/internal/physics"
	"github.com/playmatatu/cuesim/internal/sim"
	"github.com/redis/go-redis/v9"
)

// EventsChannel carries JSON-encoded sim.Event values for every table.
const EventsChannel = "table_events"

var ErrNoSnapshot = errors.New("no cached snapshot")

func SnapshotKey(tableID string) string {
	return fmt.Sprintf("table:%s:snapshot", tableID)
}

// TableStore caches table snapshots and publishes table events. It
// implements sim.SnapshotSink and sim.EventSink.
type TableStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTableStore(rdb *redis.Client, ttl time.Duration) *TableStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TableStore{rdb: rdb, ttl: ttl}
}

// Client exposes the connection for the websocket event subscriber.
func (s *TableStore) Client() *redis.Client {
	return s.rdb
}

func (s *TableStore) Close() error {
	return s.rdb.Close()
}

// PublishSnapshot stores the snapshot under the table's key, refreshing its TTL.
func (s *TableStore) PublishSnapshot(ctx context.Context, tableID string, snap physics.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.SetEx(ctx, SnapshotKey(tableID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot: %w", err)
	}
	return nil
}

// Snapshot reads the cached snapshot of a table.
func (s *TableStore) Snapshot(ctx context.Context, tableID string) (*physics.Snapshot, error) {
	data, err := s.rdb.Get(ctx, SnapshotKey(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap physics.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// PublishEvent sends the event on EventsChannel.
func (s *TableStore) PublishEvent(ctx context.Context, ev sim.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := s.rdb.Publish(ctx, EventsChannel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
