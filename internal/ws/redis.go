package ws

import (
	"context"
	"encoding/json"
	"log"

	tablestore "github.com/playmatatu/cuesim/internal/redis"
	"github.com/playmatatu/cuesim/internal/sim"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber relays table events from Redis to the hub's clients.
// Only events for tableID are forwarded.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub, tableID string) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, tablestore.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", tablestore.EventsChannel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relayEvent(hub, tableID, []byte(msg.Payload))
			}
		}
	}()
}

func relayEvent(hub *Hub, tableID string, payload []byte) {
	var ev sim.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}
	if ev.TableID != tableID {
		return
	}
	hub.PublishEvent(context.Background(), ev)
}
