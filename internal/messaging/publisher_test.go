package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-testutil"
)

type message struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	msgs []message
	err  error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, message{subject: subject, data: data})
	return nil
}

func TestNatsPublisher(t *testing.T) {
	ctx := context.Background()
	carrier := game.NewAgent("thief", geom.V3(1, 0, 2), 0, 2, 90, 0.3)
	item := game.NewItem("vase", "heavy", geom.V3(4, 0, 4))

	tests := map[string]struct {
		emit       func(p *NatsPublisher)
		expSubject string
		check      func(t *testing.T, data []byte)
	}{
		"intruder": {
			emit: func(p *NatsPublisher) {
				w := game.NewWorldState()
				w.PickUp(ctx, carrier, item)
				p.OnIntruderDetected(ctx, carrier)
				w.Drop(ctx, carrier)
			},
			expSubject: SubjectIntruder,
			check: func(t *testing.T, data []byte) {
				var ev IntruderEvent
				mustUnmarshal(t, data, &ev)
				testutil.AssertEqual(t, "agent", ev.Agent, "thief")
				testutil.AssertEqual(t, "item", ev.Item, "vase")
				testutil.AssertEqual(t, "position", ev.Position, geom.V3(1, 0, 2))
			},
		},
		"dropped": {
			emit:       func(p *NatsPublisher) { p.OnItemDropped(ctx, item) },
			expSubject: SubjectDropped,
			check: func(t *testing.T, data []byte) {
				var ev DroppedEvent
				mustUnmarshal(t, data, &ev)
				testutil.AssertEqual(t, "item", ev.Item, "vase")
				testutil.AssertEqual(t, "category", ev.Category, "heavy")
			},
		},
		"possession released": {
			emit:       func(p *NatsPublisher) { p.OnPossessionChanged(ctx, carrier, nil) },
			expSubject: SubjectPossession,
			check: func(t *testing.T, data []byte) {
				var ev PossessionEvent
				mustUnmarshal(t, data, &ev)
				testutil.AssertEqual(t, "from", ev.From, "thief")
				testutil.AssertEqual(t, "to", ev.To, "")
			},
		},
		"camera": {
			emit:       func(p *NatsPublisher) { p.Follow(ctx, carrier) },
			expSubject: SubjectCamera,
			check: func(t *testing.T, data []byte) {
				var ev CameraEvent
				mustUnmarshal(t, data, &ev)
				testutil.AssertEqual(t, "agent", ev.Agent, "thief")
			},
		},
		"round": {
			emit: func(p *NatsPublisher) {
				p.OnRoundChanged(ctx, game.RoundEvent{State: "waiting", Reason: "intruder", Returned: 2})
			},
			expSubject: SubjectRound,
			check: func(t *testing.T, data []byte) {
				var ev RoundEvent
				mustUnmarshal(t, data, &ev)
				testutil.AssertEqual(t, "reason", ev.Reason, "intruder")
				testutil.AssertEqual(t, "returned", ev.Returned, 2)
			},
		},
		"hud": {
			emit:       func(p *NatsPublisher) { p.ShowPrompt(ctx, "Hold [switch] to take over guard") },
			expSubject: SubjectHUD,
			check: func(t *testing.T, data []byte) {
				var ev HUDEvent
				mustUnmarshal(t, data, &ev)
				testutil.AssertEqual(t, "text", ev.Text, "Hold [switch] to take over guard")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := &recordingPublisher{}
			tt.emit(NewNatsPublisher(rec))

			testutil.AssertEqual(t, "messages", len(rec.msgs), 1)
			testutil.AssertEqual(t, "subject", rec.msgs[0].subject, tt.expSubject)
			tt.check(t, rec.msgs[0].data)
		})
	}
}

func TestNatsPublisher_BusDown(t *testing.T) {
	rec := &recordingPublisher{err: fmt.Errorf("nats server not started")}
	p := NewNatsPublisher(rec)

	p.ShowPrompt(context.Background(), "hello")

	testutil.AssertEqual(t, "dropped", len(rec.msgs), 0)
}

func mustUnmarshal(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshalling %s: %v", data, err)
	}
}
