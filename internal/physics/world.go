package physics

import "github.com/pixil98/go-stealth/internal/geom"

// BodyID identifies a kinematic body.
type BodyID string

// Hit describes the first collider struck by a ray.
type Hit struct {
	Point    geom.Vec3
	Normal   geom.Vec3
	Distance float64
	Collider string
}

// World is the contract the simulation core needs from the physics engine.
// Queries are snapshots of the current step and must not be cached by
// callers across frames.
type World interface {
	// Raycast returns the nearest collider on a layer in mask hit by the ray
	// within maxDistance. Degenerate colliders never produce a hit.
	Raycast(origin, direction geom.Vec3, maxDistance float64, mask LayerMask) (Hit, bool)

	// OverlapSphere returns the bodies touching the sphere, in registration order.
	OverlapSphere(center geom.Vec3, radius float64) []BodyID

	// MoveKinematic moves the body by at most desired, sliding along
	// anything that blocks movement, and returns the delta actually applied.
	MoveKinematic(id BodyID, desired geom.Vec3) geom.Vec3

	// NavigateTo asks the body to follow a path towards target during the
	// next step. Requests last a single step and must be re-issued every
	// frame while they are wanted.
	NavigateTo(id BodyID, target geom.Vec3)
}

// Body is a circular kinematic body moving on the XZ plane.
type Body struct {
	ID       BodyID
	Position geom.Vec3
	Velocity geom.Vec3

	// Yaw is the facing in degrees about the up axis, 0 faces +Z.
	Yaw float64

	Radius float64

	// Speed is the travel speed used when navigating.
	Speed float64

	// TurnRate is how fast the body turns to face its motion, in degrees per
	// second. Zero or less turns instantly.
	TurnRate float64
}

// Forward returns the body's facing direction.
func (b *Body) Forward() geom.Vec3 {
	return geom.Forward(b.Yaw)
}

// Stop clears any residual velocity.
func (b *Body) Stop() {
	b.Velocity = geom.Vec3{}
}
