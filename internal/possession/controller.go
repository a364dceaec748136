package possession

import (
	"context"
	"log/slog"
	"math"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/physics"
)

const (
	DefaultSwitchDistance   = 2.0
	DefaultInteractDistance = 1.5
)

// Camera follows the possessed agent.
type Camera interface {
	Follow(ctx context.Context, a *game.Agent)
}

// Controller tracks which agent the player possesses and applies player
// input to it. At most one agent is possessed at any time.
type Controller struct {
	world  *game.WorldState
	space  physics.World
	camera Camera

	switchDistance   float64
	interactDistance float64

	selected *game.Agent
	intruder *game.Agent

	warnedStart bool
	warnedSpace bool
}

type ControllerOpt func(*Controller)

// WithSwitchDistance sets how close an agent must be to be handed off to.
func WithSwitchDistance(d float64) ControllerOpt {
	return func(c *Controller) {
		c.switchDistance = d
	}
}

// WithInteractDistance sets how close an item must be to be picked up.
func WithInteractDistance(d float64) ControllerOpt {
	return func(c *Controller) {
		c.interactDistance = d
	}
}

// WithCamera sets the camera retargeted on every possession change.
func WithCamera(cam Camera) ControllerOpt {
	return func(c *Controller) {
		c.camera = cam
	}
}

// NewController creates a controller with nothing possessed.
func NewController(w *game.WorldState, space physics.World, opts ...ControllerOpt) *Controller {
	c := &Controller{
		world:            w,
		space:            space,
		switchDistance:   DefaultSwitchDistance,
		interactDistance: DefaultInteractDistance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Selected returns the possessed agent, or nil.
func (c *Controller) Selected() *game.Agent {
	return c.selected
}

// Begin possesses start at the beginning of a round. A missing start agent
// is logged once and leaves nothing possessed.
func (c *Controller) Begin(ctx context.Context, start *game.Agent) {
	if start == nil || start.Removed() {
		if !c.warnedStart {
			slog.WarnContext(ctx, "no start agent to possess")
			c.warnedStart = true
		}
		return
	}
	c.Possess(ctx, start)
}

// Reset releases the possessed agent and forgets pending sightings.
func (c *Controller) Reset(ctx context.Context) {
	if c.selected != nil {
		c.selected.SetPossessed(false)
		prev := c.selected
		c.selected = nil
		c.world.Listener().OnPossessionChanged(ctx, prev, nil)
	}
	c.intruder = nil
}

// Possess hands control to a. The previously possessed agent is stopped and
// returns to its brain. The camera retargets to a.
func (c *Controller) Possess(ctx context.Context, a *game.Agent) {
	if a == nil || a.Removed() || a == c.selected {
		return
	}

	prev := c.selected
	if prev != nil {
		prev.SetPossessed(false)
	}
	a.Body.Stop()
	a.SetPossessed(true)
	c.selected = a

	if c.camera != nil {
		c.camera.Follow(ctx, a)
	}
	c.world.Listener().OnPossessionChanged(ctx, prev, a)

	slog.InfoContext(ctx, "possession changed", "agent", a.Id)
}

// Move sets the possessed agent's velocity from a planar input. The input is
// clamped to unit length and scaled by the agent's current speed; the
// physical step resolves it against walls.
func (c *Controller) Move(a *game.Agent, input geom.Vec2) {
	if a == nil || !a.Possessed() {
		return
	}
	a.Body.Velocity = input.ClampUnit().Horizontal().Scale(a.Speed())
}

// Interact makes the possessed agent drop what it holds, or pick up the
// nearest item within reach when its hands are empty.
func (c *Controller) Interact(ctx context.Context) {
	a := c.selected
	if a == nil {
		return
	}
	if a.Held() != nil {
		c.world.Drop(ctx, a)
		return
	}
	if item := c.NearestItem(); item != nil {
		c.world.PickUp(ctx, a, item)
	}
}

// NearestSwitchable returns the closest autonomous agent within switch
// distance of the possessed agent. Ties go to the agent registered first.
func (c *Controller) NearestSwitchable() *game.Agent {
	if c.selected == nil {
		return nil
	}
	if c.space == nil {
		if !c.warnedSpace {
			slog.Warn("possession has no physical world, hand-off disabled")
			c.warnedSpace = true
		}
		return nil
	}

	from := c.selected.Position()
	var best *game.Agent
	bestDist := math.Inf(1)
	for _, id := range c.space.OverlapSphere(from, c.switchDistance) {
		a := c.world.Agent(string(id))
		if a == nil || a == c.selected || a.Possessed() || a.Removed() {
			continue
		}
		// The overlap query counts body radii; switching measures centres.
		if d := a.Position().Dist(from); d <= c.switchDistance && d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// NearestItem returns the closest loose item within interact distance of the
// possessed agent.
func (c *Controller) NearestItem() *game.Item {
	if c.selected == nil {
		return nil
	}

	from := c.selected.Position()
	var best *game.Item
	bestDist := math.Inf(1)
	for _, item := range c.world.Items() {
		if item.Holder() != nil {
			continue
		}
		d := item.Position().Flat().Dist(from.Flat())
		if d <= c.interactDistance && d < bestDist {
			best, bestDist = item, d
		}
	}
	return best
}

// ReportSighting records that seen was spotted by another agent's sensor.
// A possessed agent carrying an item is an intruder.
func (c *Controller) ReportSighting(seen *game.Agent) {
	if seen == nil || !seen.Possessed() || seen.Held() == nil {
		return
	}
	c.intruder = seen
}

// Flush reports the intruder spotted this frame, if any, exactly once no
// matter how many sensors saw it.
func (c *Controller) Flush(ctx context.Context) {
	if c.intruder == nil {
		return
	}
	a := c.intruder
	c.intruder = nil

	slog.InfoContext(ctx, "intruder detected", "agent", a.Id)
	c.world.Listener().OnIntruderDetected(ctx, a)
}
