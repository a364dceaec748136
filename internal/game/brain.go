package game

import (
	"context"
	"log/slog"
	"slices"

	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/physics"
)

// Navigator accepts one-frame navigation requests.
type Navigator interface {
	NavigateTo(id physics.BodyID, target geom.Vec3)
}

// BrainConfig holds the thresholds a brain works with.
type BrainConfig struct {
	// WaypointThreshold is the horizontal distance under which the agent
	// counts as arrived at a task target.
	WaypointThreshold float64

	// DisplacementThreshold is how far an item must be from its start
	// before a sighting queues its return.
	DisplacementThreshold float64
}

// Brain is an agent's ordered task queue. The front task is the one being
// worked on; patrol waypoints recycle themselves to the back of the route.
type Brain struct {
	cfg   BrainConfig
	route []geom.Vec3
	tasks []Task

	warnedNav bool
}

// NewBrain creates a brain patrolling route from its first point.
func NewBrain(route []geom.Vec3, cfg BrainConfig) *Brain {
	b := &Brain{
		cfg:   cfg,
		route: route,
	}
	b.Reset()
	return b
}

// Reset drops every task and restarts the patrol.
func (b *Brain) Reset() {
	b.tasks = b.tasks[:0]
	if len(b.route) > 0 {
		b.tasks = append(b.tasks, PatrolTask(0, b.route[0]))
	}
}

// Tasks returns a copy of the queue, front first.
func (b *Brain) Tasks() []Task {
	return slices.Clone(b.tasks)
}

// Len returns the number of queued tasks.
func (b *Brain) Len() int {
	return len(b.tasks)
}

// Front returns the task being worked on.
func (b *Brain) Front() (Task, bool) {
	if len(b.tasks) == 0 {
		return Task{}, false
	}
	return b.tasks[0], true
}

// Has reports whether a task with the given marker tag is queued.
func (b *Brain) Has(tag string) bool {
	return slices.ContainsFunc(b.tasks, func(t Task) bool {
		return t.tag() == tag
	})
}

// Step advances the queue by one frame for agent a. A possessed or removed
// agent is left alone. When the agent has arrived at the front target the
// task executes and pops; the (new) front target is then requested from nav.
func (b *Brain) Step(ctx context.Context, w *WorldState, a *Agent, nav Navigator) {
	if a == nil || a.removed || a.possessed {
		return
	}

	b.prune(a)
	b.ensureReturn(a)
	if len(b.tasks) == 0 {
		return
	}

	head := b.tasks[0]
	if a.Position().Flat().Dist(head.Target().Flat()) < b.cfg.WaypointThreshold {
		if b.execute(ctx, w, a, head) {
			b.pop()
		}
	}
	if len(b.tasks) == 0 {
		return
	}

	if nav == nil {
		if !b.warnedNav {
			slog.WarnContext(ctx, "agent has no navigator, standing still", "agent", a.Id)
			b.warnedNav = true
		}
		return
	}
	nav.NavigateTo(a.Body.ID, b.tasks[0].Target())
}

// OnItemSeen queues the return of a displaced item at the front of the
// queue. When the agent is already carrying something the pair goes right
// after its pending drop; without one the sighting is ignored and the next
// one retries. Returns whether tasks were inserted.
func (b *Brain) OnItemSeen(ctx context.Context, a *Agent, item *Item) bool {
	if a == nil || item == nil || a.removed || a.possessed {
		return false
	}
	if item.holder != nil || item.Displacement() <= b.cfg.DisplacementThreshold {
		return false
	}
	if b.Has(item.MarkerTag()) {
		return false
	}

	at := 0
	if a.held != nil {
		i := slices.IndexFunc(b.tasks, func(t Task) bool { return t.Kind == TaskDrop })
		if i < 0 {
			return false
		}
		at = i + 1
	}
	b.tasks = slices.Insert(b.tasks, at, PickUpTask(item), DropTask(item))

	slog.DebugContext(ctx, "queued item return", "agent", a.Id, "item", item.Id, "position", at)
	return true
}

// execute performs the front task. It returns false when the task must stay
// queued.
func (b *Brain) execute(ctx context.Context, w *WorldState, a *Agent, t Task) bool {
	switch t.Kind {
	case TaskPickUp:
		if t.Item == nil || a.held == t.Item {
			return true
		}
		return w.PickUp(ctx, a, t.Item)
	case TaskDrop:
		w.Drop(ctx, a)
		return true
	default:
		return true
	}
}

func (b *Brain) pop() {
	t := b.tasks[0]
	b.tasks = slices.Delete(b.tasks, 0, 1)
	if t.IsPatrol() && len(b.route) > 0 {
		next := (t.Waypoint + 1) % len(b.route)
		b.tasks = append(b.tasks, PatrolTask(next, b.route[next]))
	}
}

// prune drops pickup/drop pairs whose item was taken by another agent or is
// already back where it belongs.
func (b *Brain) prune(a *Agent) {
	stale := make(map[string]bool)
	for _, t := range b.tasks {
		if t.Kind != TaskPickUp || t.Item == nil {
			continue
		}
		h := t.Item.holder
		switch {
		case h != nil && h != a:
			stale[t.tag()] = true
		case h == nil && t.Item.Displacement() <= b.cfg.DisplacementThreshold:
			stale[t.tag()] = true
		}
	}
	if len(stale) == 0 {
		return
	}
	b.tasks = slices.DeleteFunc(b.tasks, func(t Task) bool {
		return stale[t.tag()]
	})
}

// ensureReturn queues a drop for an item the agent carries without one, so
// an agent released while holding something takes it home.
func (b *Brain) ensureReturn(a *Agent) {
	if a.held == nil || b.Has(a.held.MarkerTag()) {
		return
	}
	b.tasks = slices.Insert(b.tasks, 0, DropTask(a.held))
}
