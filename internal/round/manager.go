package round

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/possession"
)

const (
	DefaultPreGameDelay = 2 * time.Second
	DefaultDuration     = 3 * time.Minute
)

// State is the phase of a round.
type State int

const (
	StateWaiting State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "waiting"
}

const (
	ReasonTimeUp   = "time_up"
	ReasonIntruder = "intruder"
)

// Manager runs rounds: after a short delay the interact key starts a round,
// which runs until time is up or an intruder is detected. Either ends it and
// puts everything back where the level placed it.
type Manager struct {
	game.NopListener

	world   *game.WorldState
	ctrl    *possession.Controller
	handoff *possession.HandOff
	startId string

	preGameDelay time.Duration
	duration     time.Duration

	state    State
	since    time.Time
	deadline time.Time
	returned int
	reset    string
}

type ManagerOpt func(*Manager)

// WithPreGameDelay sets how long the waiting phase ignores the start key.
func WithPreGameDelay(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.preGameDelay = d
	}
}

// WithDuration sets the round length.
func WithDuration(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.duration = d
	}
}

// NewManager creates a manager waiting for the first round. startId names
// the agent possessed when a round starts.
func NewManager(w *game.WorldState, ctrl *possession.Controller, h *possession.HandOff, startId string, opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:        w,
		ctrl:         ctrl,
		handoff:      h,
		startId:      startId,
		preGameDelay: DefaultPreGameDelay,
		duration:     DefaultDuration,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current phase.
func (m *Manager) State() State {
	return m.state
}

// Returned is the number of items returned to a drop zone this round.
func (m *Manager) Returned() int {
	return m.returned
}

// Remaining is the time left in a running round.
func (m *Manager) Remaining(now time.Time) time.Duration {
	if m.state != StateRunning {
		return 0
	}
	return max(m.deadline.Sub(now), 0)
}

// OnItemDropped satisfies game.Listener.
func (m *Manager) OnItemDropped(context.Context, *game.Item) {
	if m.state == StateRunning {
		m.returned++
	}
}

// OnIntruderDetected satisfies game.Listener. The round ends on the next
// Step.
func (m *Manager) OnIntruderDetected(context.Context, *game.Agent) {
	if m.state == StateRunning {
		m.reset = ReasonIntruder
	}
}

// Step advances the round with this frame's input.
func (m *Manager) Step(ctx context.Context, now time.Time, in possession.Input) {
	if m.since.IsZero() {
		m.since = now
	}

	switch m.state {
	case StateWaiting:
		if in.Interact && now.Sub(m.since) >= m.preGameDelay {
			m.start(ctx, now)
		}
	case StateRunning:
		switch {
		case m.reset != "":
			m.Reset(ctx, now, m.reset)
		case !now.Before(m.deadline):
			m.Reset(ctx, now, ReasonTimeUp)
		}
	}
}

func (m *Manager) start(ctx context.Context, now time.Time) {
	m.state = StateRunning
	m.since = now
	m.deadline = now.Add(m.duration)
	m.returned = 0
	m.reset = ""

	m.ctrl.Begin(ctx, m.world.Agent(m.startId))

	slog.InfoContext(ctx, "round started", "duration", m.duration)
	m.world.Listener().OnRoundChanged(ctx, game.RoundEvent{
		State:     StateRunning.String(),
		Remaining: m.duration,
	})
}

// Reset ends the round: possession and any hand-off in progress are
// cleared, agents return to their start poses with fresh patrols and items
// go back to their start positions.
func (m *Manager) Reset(ctx context.Context, now time.Time, reason string) {
	returned := m.returned

	m.ctrl.Reset(ctx)
	m.handoff.Reset()
	m.world.ResetItems()
	for _, a := range m.world.Agents() {
		a.ResetPose()
		if a.Brain != nil {
			a.Brain.Reset()
		}
	}

	m.state = StateWaiting
	m.since = now
	m.deadline = time.Time{}
	m.returned = 0
	m.reset = ""

	slog.InfoContext(ctx, "round reset", "reason", reason, "returned", returned)
	m.world.Listener().OnRoundChanged(ctx, game.RoundEvent{
		State:    StateWaiting.String(),
		Reason:   reason,
		Returned: returned,
	})
}
