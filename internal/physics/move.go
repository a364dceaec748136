package physics

import (
	"math"

	"github.com/pixil98/go-stealth/internal/geom"
)

// MoveKinematic satisfies World. Movement is resolved one horizontal axis at
// a time against wall boxes grown by the body radius, so a body pushed into
// a wall at an angle slides along it rather than stopping or tunnelling.
func (s *Space) MoveKinematic(id BodyID, desired geom.Vec3) geom.Vec3 {
	b, ok := s.bodies[id]
	if !ok || !desired.IsFinite() {
		return geom.Vec3{}
	}

	start := b.Position
	x := s.resolveX(b, start.X, start.Z, start.X+desired.X, desired.X)
	z := s.resolveZ(b, x, start.Z, start.Z+desired.Z, desired.Z)

	b.Position = geom.Vec3{X: x, Y: start.Y + desired.Y, Z: z}
	return b.Position.Sub(start)
}

func (s *Space) resolveX(b *Body, oldX, z, newX, dx float64) float64 {
	if dx == 0 {
		return oldX
	}
	for _, c := range s.blockers(b) {
		minZ, maxZ := c.Min.Z-b.Radius, c.Max.Z+b.Radius
		if z <= minZ || z >= maxZ {
			continue
		}
		if dx > 0 {
			edge := c.Min.X - b.Radius
			if oldX <= edge+geom.Epsilon && newX > edge {
				newX = math.Max(oldX, edge)
			}
		} else {
			edge := c.Max.X + b.Radius
			if oldX >= edge-geom.Epsilon && newX < edge {
				newX = math.Min(oldX, edge)
			}
		}
	}
	return newX
}

func (s *Space) resolveZ(b *Body, x, oldZ, newZ, dz float64) float64 {
	if dz == 0 {
		return oldZ
	}
	for _, c := range s.blockers(b) {
		minX, maxX := c.Min.X-b.Radius, c.Max.X+b.Radius
		if x <= minX || x >= maxX {
			continue
		}
		if dz > 0 {
			edge := c.Min.Z - b.Radius
			if oldZ <= edge+geom.Epsilon && newZ > edge {
				newZ = math.Max(oldZ, edge)
			}
		} else {
			edge := c.Max.Z + b.Radius
			if oldZ >= edge-geom.Epsilon && newZ < edge {
				newZ = math.Min(oldZ, edge)
			}
		}
	}
	return newZ
}

// blockers returns the colliders that stop movement at the body's height.
func (s *Space) blockers(b *Body) []*Collider {
	var out []*Collider
	for _, c := range s.colliders {
		if !MaskMovement.Contains(c.Layer) || c.Degenerate() {
			continue
		}
		if b.Position.Y >= c.Max.Y || b.Position.Y < c.Min.Y {
			continue
		}
		out = append(out, c)
	}
	return out
}
