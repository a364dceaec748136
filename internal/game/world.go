package game

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-stealth/internal/geom"
)

// DropZone is an area where dropping an item counts as returning it.
type DropZone struct {
	Id       string
	Position geom.Vec3
	Radius   float64
}

// Contains reports whether p lies inside the zone's capture radius on the
// horizontal plane.
func (z DropZone) Contains(p geom.Vec3) bool {
	return p.Flat().Dist(z.Position.Flat()) <= z.Radius
}

// WorldState is the registry of agents, items and drop zones. It is owned by
// the simulation goroutine and is not safe for concurrent use.
type WorldState struct {
	listener  Listener
	modifiers map[string]float64

	agents     []*Agent
	agentsById map[string]*Agent

	items     []*Item
	itemsById map[string]*Item

	zones []DropZone
}

type WorldOpt func(*WorldState)

// WithListener sets the listener that receives game progress events.
func WithListener(l Listener) WorldOpt {
	return func(w *WorldState) {
		w.listener = l
	}
}

// WithSpeedModifiers sets the move speed multiplier applied while carrying an
// item of each category.
func WithSpeedModifiers(m map[string]float64) WorldOpt {
	return func(w *WorldState) {
		w.modifiers = m
	}
}

// NewWorldState creates an empty world.
func NewWorldState(opts ...WorldOpt) *WorldState {
	w := &WorldState{
		listener:   NopListener{},
		agentsById: make(map[string]*Agent),
		itemsById:  make(map[string]*Item),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetListener replaces the event listener.
func (w *WorldState) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	w.listener = l
}

// Listener returns the event listener.
func (w *WorldState) Listener() Listener {
	return w.listener
}

// AddAgent registers an agent. Registration order is the order agents are
// stepped and searched in.
func (w *WorldState) AddAgent(a *Agent) error {
	if _, exists := w.agentsById[a.Id]; exists {
		return ErrAgentExists
	}
	w.agents = append(w.agents, a)
	w.agentsById[a.Id] = a
	return nil
}

// RemoveAgent deregisters an agent. Anything it held is left where it stands.
func (w *WorldState) RemoveAgent(id string) error {
	a, ok := w.agentsById[id]
	if !ok {
		return ErrAgentNotFound
	}
	if it := a.held; it != nil {
		it.holder = nil
		it.position = a.Position()
		a.held = nil
	}
	a.removed = true
	a.possessed = false
	delete(w.agentsById, id)
	for i, other := range w.agents {
		if other == a {
			w.agents = append(w.agents[:i], w.agents[i+1:]...)
			break
		}
	}
	return nil
}

// Agent returns a registered agent or nil.
func (w *WorldState) Agent(id string) *Agent {
	return w.agentsById[id]
}

// Agents returns the registered agents in registration order.
func (w *WorldState) Agents() []*Agent {
	return w.agents
}

// Possessed returns the possessed agent, or nil.
func (w *WorldState) Possessed() *Agent {
	for _, a := range w.agents {
		if a.possessed {
			return a
		}
	}
	return nil
}

// AddItem registers an item.
func (w *WorldState) AddItem(i *Item) error {
	if _, exists := w.itemsById[i.Id]; exists {
		return ErrItemExists
	}
	w.items = append(w.items, i)
	w.itemsById[i.Id] = i
	return nil
}

// Item returns a registered item or nil.
func (w *WorldState) Item(id string) *Item {
	return w.itemsById[id]
}

// Items returns the registered items in registration order.
func (w *WorldState) Items() []*Item {
	return w.items
}

// AddDropZone registers a drop zone.
func (w *WorldState) AddDropZone(z DropZone) {
	w.zones = append(w.zones, z)
}

// DropZones returns the registered drop zones.
func (w *WorldState) DropZones() []DropZone {
	return w.zones
}

// PickUp attaches item to a. It does nothing and returns false when a already
// carries something or the item is held by someone else.
func (w *WorldState) PickUp(ctx context.Context, a *Agent, item *Item) bool {
	if a == nil || item == nil || a.removed {
		return false
	}
	if a.held != nil || item.holder != nil {
		return false
	}

	a.held = item
	item.holder = a
	if m, ok := w.modifiers[item.Category]; ok {
		a.setModifier(m)
	}

	slog.DebugContext(ctx, "item picked up", "agent", a.Id, "item", item.Id)
	return true
}

// Drop detaches whatever a carries and leaves it at a's position. The
// listener hears about it when the drop lands inside a drop zone. Returns
// the dropped item, or nil when a carried nothing.
func (w *WorldState) Drop(ctx context.Context, a *Agent) *Item {
	if a == nil || a.held == nil {
		return nil
	}

	item := a.held
	item.position = a.Position()
	item.holder = nil
	a.held = nil
	a.setModifier(1)

	slog.DebugContext(ctx, "item dropped", "agent", a.Id, "item", item.Id)

	for _, z := range w.zones {
		if z.Contains(item.position) {
			w.listener.OnItemDropped(ctx, item)
			break
		}
	}
	return item
}

// ResetItems returns every item to its start position.
func (w *WorldState) ResetItems() {
	for _, i := range w.items {
		i.ResetPosition()
	}
}
