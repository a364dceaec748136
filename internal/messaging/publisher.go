package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pixil98/go-stealth/internal/game"
)

// Publisher sends raw messages to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher turns game events into JSON messages on the event bus. It
// listens to the game, follows the possessed agent as its camera and carries
// HUD prompts.
type NatsPublisher struct {
	pub Publisher
}

var _ game.Listener = (*NatsPublisher)(nil)

// NewNatsPublisher wraps a publisher, usually a NatsServer.
func NewNatsPublisher(pub Publisher) *NatsPublisher {
	return &NatsPublisher{pub: pub}
}

func (p *NatsPublisher) OnItemDropped(ctx context.Context, item *game.Item) {
	p.send(ctx, SubjectDropped, DroppedEvent{
		Item:     item.Id,
		Category: item.Category,
		Position: item.Position(),
	})
}

func (p *NatsPublisher) OnIntruderDetected(ctx context.Context, a *game.Agent) {
	ev := IntruderEvent{Agent: a.Id, Position: a.Position()}
	if held := a.Held(); held != nil {
		ev.Item = held.Id
	}
	p.send(ctx, SubjectIntruder, ev)
}

func (p *NatsPublisher) OnPossessionChanged(ctx context.Context, from, to *game.Agent) {
	var ev PossessionEvent
	if from != nil {
		ev.From = from.Id
	}
	if to != nil {
		ev.To = to.Id
	}
	p.send(ctx, SubjectPossession, ev)
}

func (p *NatsPublisher) OnRoundChanged(ctx context.Context, ev game.RoundEvent) {
	p.send(ctx, SubjectRound, RoundEvent{
		State:     ev.State,
		Reason:    ev.Reason,
		Remaining: ev.Remaining,
		Returned:  ev.Returned,
	})
}

// Follow satisfies possession.Camera.
func (p *NatsPublisher) Follow(ctx context.Context, a *game.Agent) {
	p.send(ctx, SubjectCamera, CameraEvent{Agent: a.Id, Position: a.Position()})
}

// ShowPrompt publishes HUD text.
func (p *NatsPublisher) ShowPrompt(ctx context.Context, text string) {
	p.send(ctx, SubjectHUD, HUDEvent{Text: text})
}

// send logs and drops messages that cannot be delivered.
func (p *NatsPublisher) send(ctx context.Context, subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "marshalling event", "subject", subject, "error", err)
		return
	}
	if err := p.pub.Publish(subject, data); err != nil {
		slog.DebugContext(ctx, "publishing event", "subject", subject, "error", err)
	}
}
