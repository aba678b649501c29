package mqtt

import (
	"context"

	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/internal/eventbus"
)

// ChangePublisher is implemented by Publisher.
type ChangePublisher interface {
	PublishChange(ctx context.Context, c planner.Change) error
}

// Relay forwards changes from the bus to the broker.
type Relay struct {
	bus *eventbus.TypedBus[planner.Change]
	pub ChangePublisher
	log logger.Logger
}

// NewRelay creates a Relay reading from bus.
func NewRelay(bus *eventbus.TypedBus[planner.Change], pub ChangePublisher, log logger.Logger) *Relay {
	return &Relay{bus: bus, pub: pub, log: logger.OrNop(log)}
}

// Start subscribes to the bus and publishes every change in a goroutine
// until ctx is done or the bus is closed. Changes published after Start
// returns are relayed. The returned channel is closed once the relay stops.
func (r *Relay) Start(ctx context.Context) <-chan struct{} {
	sub := r.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(ctx, sub)
	}()
	return done
}

func (r *Relay) run(ctx context.Context, sub <-chan planner.Change) {
	defer r.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-sub:
			if !ok {
				return
			}
			if err := r.pub.PublishChange(ctx, c); err != nil {
				r.log.Errorf("relay %s %s: %v", c.Kind, c.EntityID, err)
				continue
			}
			r.log.Debugw("change relayed", map[string]any{"kind": string(c.Kind), "entity_id": c.EntityID})
		}
	}
}
