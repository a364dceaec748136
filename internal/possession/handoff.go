package possession

import (
	"context"
	"time"

	"github.com/pixil98/go-stealth/internal/game"
)

const DefaultMaxHoldDuration = 3 * time.Second

// HandOffState is the state of the hold-to-confirm gesture.
type HandOffState int

const (
	HandOffIdle HandOffState = iota
	HandOffHolding
)

func (s HandOffState) String() string {
	if s == HandOffHolding {
		return "holding"
	}
	return "idle"
}

// HandOff moves possession to a nearby agent when the switch key is pressed
// and then released, or held for the maximum duration. Each hold cycle
// commits exactly once. The target is fixed when the key goes down; it is
// committed even if it walks out of range during the hold.
type HandOff struct {
	ctrl    *Controller
	maxHold time.Duration

	state   HandOffState
	pending *game.Agent
	start   time.Time
}

// NewHandOff creates an idle hand-off for ctrl.
func NewHandOff(ctrl *Controller, maxHold time.Duration) *HandOff {
	if maxHold <= 0 {
		maxHold = DefaultMaxHoldDuration
	}
	return &HandOff{
		ctrl:    ctrl,
		maxHold: maxHold,
	}
}

// State returns the gesture state.
func (h *HandOff) State() HandOffState {
	return h.state
}

// Pending returns the agent that will be possessed on commit, or nil.
func (h *HandOff) Pending() *game.Agent {
	return h.pending
}

// Progress returns how far through the hold the gesture is, in [0, 1].
func (h *HandOff) Progress(now time.Time) float64 {
	if h.state != HandOffHolding {
		return 0
	}
	p := float64(now.Sub(h.start)) / float64(h.maxHold)
	return min(max(p, 0), 1)
}

// Step advances the gesture with this frame's input edges. It returns true
// on the frame the hand-off commits.
func (h *HandOff) Step(ctx context.Context, now time.Time, in Input) bool {
	if h.state == HandOffIdle {
		if !in.SwitchDown {
			return false
		}
		target := h.ctrl.NearestSwitchable()
		if target == nil {
			return false
		}
		h.state = HandOffHolding
		h.pending = target
		h.start = now
	}

	if in.SwitchUp || now.Sub(h.start) >= h.maxHold {
		h.commit(ctx)
		return true
	}
	return false
}

// Reset abandons any gesture in progress.
func (h *HandOff) Reset() {
	h.state = HandOffIdle
	h.pending = nil
	h.start = time.Time{}
}

func (h *HandOff) commit(ctx context.Context) {
	target := h.pending
	h.Reset()
	h.ctrl.Possess(ctx, target)
}
