package game

import (
	"context"
	"time"
)

// Listener receives game progress events. Implementations must not block the
// frame.
type Listener interface {
	OnItemDropped(ctx context.Context, item *Item)
	OnIntruderDetected(ctx context.Context, agent *Agent)
	OnPossessionChanged(ctx context.Context, from, to *Agent)
	OnRoundChanged(ctx context.Context, ev RoundEvent)
}

// RoundEvent describes a round state transition.
type RoundEvent struct {
	State     string        `json:"state"`
	Reason    string        `json:"reason,omitempty"`
	Remaining time.Duration `json:"remaining"`
	Returned  int           `json:"returned"`
}

// NopListener ignores every event. Embed it to implement part of Listener.
type NopListener struct{}

func (NopListener) OnItemDropped(context.Context, *Item)               {}
func (NopListener) OnIntruderDetected(context.Context, *Agent)         {}
func (NopListener) OnPossessionChanged(context.Context, *Agent, *Agent) {}
func (NopListener) OnRoundChanged(context.Context, RoundEvent)          {}

// Listeners fans every event out to each listener in order.
type Listeners []Listener

func (ls Listeners) OnItemDropped(ctx context.Context, item *Item) {
	for _, l := range ls {
		l.OnItemDropped(ctx, item)
	}
}

func (ls Listeners) OnIntruderDetected(ctx context.Context, agent *Agent) {
	for _, l := range ls {
		l.OnIntruderDetected(ctx, agent)
	}
}

func (ls Listeners) OnPossessionChanged(ctx context.Context, from, to *Agent) {
	for _, l := range ls {
		l.OnPossessionChanged(ctx, from, to)
	}
}

func (ls Listeners) OnRoundChanged(ctx context.Context, ev RoundEvent) {
	for _, l := range ls {
		l.OnRoundChanged(ctx, ev)
	}
}
