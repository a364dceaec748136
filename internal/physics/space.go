package physics

import (
	"fmt"
	"math"

	"github.com/pixil98/go-stealth/internal/geom"
)

// arriveRadius is how close a navigating body gets to a path point before
// moving on to the next one.
const arriveRadius = 0.05

// Space is the reference World: static box colliders, circular bodies on the
// XZ plane, doors and an optional navigation grid.
type Space struct {
	colliders []*Collider
	doors     []*Door

	bodies map[BodyID]*Body
	order  []BodyID

	nav      *NavGrid
	requests map[BodyID]geom.Vec3
	paths    map[BodyID]*pathState

	// steered holds the velocity navigation last gave each body, so a body
	// whose requests stop coasts to a halt instead of drifting.
	steered map[BodyID]geom.Vec3
}

var _ World = (*Space)(nil)

// NewSpace creates an empty space.
func NewSpace() *Space {
	return &Space{
		bodies:   make(map[BodyID]*Body),
		requests: make(map[BodyID]geom.Vec3),
		paths:    make(map[BodyID]*pathState),
		steered:  make(map[BodyID]geom.Vec3),
	}
}

// AddCollider registers a static collider.
func (s *Space) AddCollider(c *Collider) {
	s.colliders = append(s.colliders, c)
}

// Colliders returns the registered colliders.
func (s *Space) Colliders() []*Collider {
	return s.colliders
}

// AddDoor registers a door. Its blocker is registered as a collider too.
func (s *Space) AddDoor(d *Door) {
	s.doors = append(s.doors, d)
	s.AddCollider(d.Blocker)
}

// Doors returns the registered doors.
func (s *Space) Doors() []*Door {
	return s.doors
}

// AddBody registers a kinematic body.
func (s *Space) AddBody(b *Body) error {
	if _, exists := s.bodies[b.ID]; exists {
		return fmt.Errorf("body %q already registered", b.ID)
	}
	s.bodies[b.ID] = b
	s.order = append(s.order, b.ID)
	return nil
}

// RemoveBody deregisters a body and forgets its navigation state.
func (s *Space) RemoveBody(id BodyID) {
	if _, ok := s.bodies[id]; !ok {
		return
	}
	delete(s.bodies, id)
	delete(s.requests, id)
	delete(s.paths, id)
	delete(s.steered, id)
	for i, bid := range s.order {
		if bid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Body returns a registered body or nil.
func (s *Space) Body(id BodyID) *Body {
	return s.bodies[id]
}

// SetNavGrid installs the navigation grid. Without one, navigation steers in
// a straight line.
func (s *Space) SetNavGrid(g *NavGrid) {
	s.nav = g
	s.paths = make(map[BodyID]*pathState)
}

// Raycast satisfies World.
func (s *Space) Raycast(origin, direction geom.Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	dir := direction.Normalize()
	if dir.IsZero() || maxDistance <= 0 || !origin.IsFinite() {
		return Hit{}, false
	}

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, c := range s.colliders {
		if !mask.Contains(c.Layer) || c.Degenerate() {
			continue
		}
		t, n, ok := c.intersect(origin, dir, maxDistance)
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{
			Point:    origin.Add(dir.Scale(t)),
			Normal:   n,
			Distance: t,
			Collider: c.ID,
		}
		found = true
	}
	return best, found
}

// OverlapSphere satisfies World.
func (s *Space) OverlapSphere(center geom.Vec3, radius float64) []BodyID {
	var ids []BodyID
	for _, id := range s.order {
		b := s.bodies[id]
		if b.Position.Dist(center) <= radius+b.Radius {
			ids = append(ids, id)
		}
	}
	return ids
}

// NavigateTo satisfies World.
func (s *Space) NavigateTo(id BodyID, target geom.Vec3) {
	if _, ok := s.bodies[id]; !ok {
		return
	}
	s.requests[id] = target
}

// Step advances the space by dt seconds: doors react to bodies, navigating
// bodies steer along their paths, every body integrates its velocity and
// turns to face its motion. Navigation requests are consumed.
func (s *Space) Step(dt float64) {
	for _, d := range s.doors {
		d.update(s)
	}

	for _, id := range s.order {
		b := s.bodies[id]
		if target, ok := s.requests[id]; ok {
			s.steer(b, target, dt)
			s.steered[id] = b.Velocity
		} else if v, ok := s.steered[id]; ok {
			if v == b.Velocity {
				b.Stop()
			}
			delete(s.steered, id)
		}

		if b.Velocity.IsZero() || dt <= 0 {
			continue
		}
		s.MoveKinematic(id, b.Velocity.Scale(dt))

		want := geom.YawOf(b.Velocity)
		if b.TurnRate <= 0 {
			b.Yaw = geom.NormalizeDeg(want)
		} else {
			b.Yaw = geom.TurnTowards(b.Yaw, want, b.TurnRate*dt)
		}
	}

	clear(s.requests)
}

// steer sets the body's velocity towards the next point of its path. The
// path is replanned when the target moves or when the body is no longer
// where the last steer could have taken it (possessed, reset or pushed).
func (s *Space) steer(b *Body, target geom.Vec3, dt float64) {
	ps := s.paths[b.ID]
	if ps == nil || ps.target.Dist(target) > arriveRadius || ps.offPath(b.Position) {
		ps = s.plan(b, target)
		s.paths[b.ID] = ps
	}
	defer ps.mark(b, dt)

	for ps.next < len(ps.points) && b.Position.Flat().Dist(ps.points[ps.next].Flat()) <= arriveRadius {
		ps.next++
	}
	if ps.next >= len(ps.points) {
		b.Stop()
		return
	}

	to := ps.points[ps.next].Sub(b.Position).Flat()
	speed := b.Speed
	if dt > 0 {
		speed = math.Min(speed, to.Len()/dt)
	}
	b.Velocity = to.Normalize().Scale(speed)
}

func (s *Space) plan(b *Body, target geom.Vec3) *pathState {
	ps := &pathState{target: target, last: b.Position, reach: arriveRadius}
	if s.nav != nil {
		if pts, ok := s.nav.FindPath(b.Position, target); ok {
			ps.points = pts
			return ps
		}
	}
	ps.points = []geom.Vec3{target}
	return ps
}

type pathState struct {
	target geom.Vec3
	points []geom.Vec3
	next   int

	// last is where the body stood at the previous steer and reach how far
	// the velocity set then can carry it in one step.
	last  geom.Vec3
	reach float64
}

func (ps *pathState) mark(b *Body, dt float64) {
	ps.last = b.Position
	ps.reach = b.Velocity.Len()*math.Max(dt, 0) + arriveRadius
}

func (ps *pathState) offPath(p geom.Vec3) bool {
	return p.Flat().Dist(ps.last.Flat()) > ps.reach
}
