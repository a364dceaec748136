package possession

import (
	"sync"

	"github.com/pixil98/go-stealth/internal/geom"
)

// Input is one frame's worth of player input. Key fields are edges: they are
// true only on the frame the key changed.
type Input struct {
	Move       geom.Vec2
	SwitchDown bool
	SwitchUp   bool
	Interact   bool
}

// InputBuffer collects input from other goroutines between frames.
type InputBuffer struct {
	mu sync.Mutex

	move     geom.Vec2
	held     bool
	down     bool
	up       bool
	interact bool
}

// SetMove sets the movement axis. It persists until changed.
func (b *InputBuffer) SetMove(v geom.Vec2) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.move = v
}

// PressSwitch records the switch key going down. Repeated presses while the
// key is held are ignored.
func (b *InputBuffer) PressSwitch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.held {
		return
	}
	b.held = true
	b.down = true
}

// ReleaseSwitch records the switch key going up.
func (b *InputBuffer) ReleaseSwitch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.held {
		return
	}
	b.held = false
	b.up = true
}

// Interact records a press of the interact key.
func (b *InputBuffer) Interact() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.interact = true
}

// Drain returns the input gathered since the last drain and clears the
// edges.
func (b *InputBuffer) Drain() Input {
	b.mu.Lock()
	defer b.mu.Unlock()

	in := Input{
		Move:       b.move,
		SwitchDown: b.down,
		SwitchUp:   b.up,
		Interact:   b.interact,
	}
	b.down, b.up, b.interact = false, false, false
	return in
}
