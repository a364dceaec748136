package vision

import (
	"context"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/physics"
)

// Observer receives what a sensor sees. Sightings repeat every frame the
// target stays visible; receivers must be idempotent.
type Observer interface {
	OnItemSeen(ctx context.Context, viewer *game.Agent, item *game.Item)
	OnAgentSeen(ctx context.Context, viewer, seen *game.Agent)
}

// Boundary is the renderable outline of a view cone: a triangle fan around
// the eye.
type Boundary struct {
	// Points holds the eye followed by one sample per ray.
	Points []geom.Vec3

	// Occluded reports, per ray, whether the ray stopped on an obstruction.
	Occluded []bool

	// Indices lists fan triangles as triples into Points.
	Indices []int
}

// Triangles returns the number of triangles in the fan.
func (b Boundary) Triangles() int {
	return len(b.Indices) / 3
}

// Sensor is the view cone carried by one agent.
type Sensor struct {
	cfg   Config
	owner *game.Agent
	world physics.World

	boundary Boundary
}

// NewSensor attaches a cone with cfg to owner.
func NewSensor(owner *game.Agent, world physics.World, cfg Config) *Sensor {
	return &Sensor{
		cfg:   cfg,
		owner: owner,
		world: world,
	}
}

// Owner returns the agent carrying the sensor.
func (s *Sensor) Owner() *game.Agent {
	return s.owner
}

// Config returns the cone parameters.
func (s *Sensor) Config() Config {
	return s.cfg
}

// SetEnabled turns the cone on or off.
func (s *Sensor) SetEnabled(enabled bool) {
	s.cfg.Enabled = enabled
	if !enabled {
		s.boundary = Boundary{}
	}
}

// Origin is the eye position.
func (s *Sensor) Origin() geom.Vec3 {
	return s.owner.Position().Add(geom.Up.Scale(s.cfg.Height))
}

// active reports whether the sensor can see anything at all.
func (s *Sensor) active() bool {
	return s.cfg.Enabled && s.owner != nil && !s.owner.Removed() && s.world != nil
}

// Boundary returns the boundary computed by the last Update. It is empty
// while the sensor is inactive.
func (s *Sensor) Boundary() Boundary {
	return s.boundary
}

// Update recomputes the boundary from scratch: RayCount+1 rays spread evenly
// across the cone, each ending at its first obstruction or at full radius.
func (s *Sensor) Update() {
	if !s.active() {
		s.boundary = Boundary{}
		return
	}

	n := s.cfg.RayCount
	half := s.cfg.HalfAngle()
	step := s.cfg.ViewAngle / float64(n)
	origin := s.Origin()
	fwd := s.owner.Forward()

	b := Boundary{
		Points:   make([]geom.Vec3, n+2),
		Occluded: make([]bool, n+1),
		Indices:  make([]int, 0, n*3),
	}
	b.Points[0] = origin
	for i := 0; i <= n; i++ {
		dir := fwd.RotateY(-half + step*float64(i))
		if hit, ok := s.world.Raycast(origin, dir, s.cfg.Radius, s.cfg.Mask); ok {
			b.Points[i+1] = hit.Point
			b.Occluded[i] = true
		} else {
			b.Points[i+1] = origin.Add(dir.Scale(s.cfg.Radius))
		}
	}

	for i := 0; i < n; i++ {
		if s.cfg.TrackOcclusion && b.Occluded[i] != b.Occluded[i+1] {
			continue
		}
		b.Indices = append(b.Indices, 0, i+1, i+2)
	}
	s.boundary = b
}

// IsVisible reports whether p can be seen from the eye: within radius,
// within the cone's half angle on the horizontal plane, and with no
// obstruction on the line of sight. The boundary is not consulted.
func (s *Sensor) IsVisible(p geom.Vec3) bool {
	if !s.active() || !p.IsFinite() {
		return false
	}

	origin := s.Origin()
	to := p.Sub(origin)
	dist := to.Len()
	if dist > s.cfg.Radius {
		return false
	}
	if dist < geom.Epsilon {
		return true
	}
	if geom.Angle(s.owner.Forward(), to.Flat()) > s.cfg.HalfAngle()+geom.Epsilon {
		return false
	}
	if _, hit := s.world.Raycast(origin, to, dist, s.cfg.Mask); hit {
		return false
	}
	return true
}

// Detect evaluates the visibility predicate on every item and every other
// agent and reports the visible ones to obs.
func (s *Sensor) Detect(ctx context.Context, w *game.WorldState, obs Observer) {
	if !s.active() || w == nil || obs == nil {
		return
	}

	for _, item := range w.Items() {
		if item.Holder() == s.owner {
			continue
		}
		if s.IsVisible(item.Position()) {
			obs.OnItemSeen(ctx, s.owner, item)
		}
	}
	for _, a := range w.Agents() {
		if a == s.owner {
			continue
		}
		if s.IsVisible(a.Position()) {
			obs.OnAgentSeen(ctx, s.owner, a)
		}
	}
}
