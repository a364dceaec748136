package physics

import (
	"math"

	"github.com/pixil98/go-stealth/internal/geom"
)

// Collider is a static axis-aligned box.
type Collider struct {
	ID    string
	Min   geom.Vec3
	Max   geom.Vec3
	Layer Layer
}

// Degenerate reports whether the box cannot take part in queries.
func (c *Collider) Degenerate() bool {
	if !c.Min.IsFinite() || !c.Max.IsFinite() {
		return true
	}
	return c.Max.X <= c.Min.X || c.Max.Y <= c.Min.Y || c.Max.Z <= c.Min.Z
}

// Contains reports whether p lies inside the box.
func (c *Collider) Contains(p geom.Vec3) bool {
	return p.X > c.Min.X && p.X < c.Max.X &&
		p.Y > c.Min.Y && p.Y < c.Max.Y &&
		p.Z > c.Min.Z && p.Z < c.Max.Z
}

// intersect runs a slab test for a ray with unit direction dir. It returns
// the entry distance and the face normal. Rays starting inside the box do
// not hit it.
func (c *Collider) intersect(origin, dir geom.Vec3, maxDistance float64) (float64, geom.Vec3, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	var normal geom.Vec3

	axes := [3]struct {
		o, d, lo, hi float64
		n          geom.Vec3
	}{
		{origin.X, dir.X, c.Min.X, c.Max.X, geom.V3(1, 0, 0)},
		{origin.Y, dir.Y, c.Min.Y, c.Max.Y, geom.V3(0, 1, 0)},
		{origin.Z, dir.Z, c.Min.Z, c.Max.Z, geom.V3(0, 0, 1)},
	}

	for _, a := range axes {
		if math.Abs(a.d) < geom.Epsilon {
			if a.o < a.lo || a.o > a.hi {
				return 0, geom.Vec3{}, false
			}
			continue
		}
		t1 := (a.lo - a.o) / a.d
		t2 := (a.hi - a.o) / a.d
		n := a.n.Scale(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = a.n
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, geom.Vec3{}, false
		}
	}

	if tmin < 0 || tmin > maxDistance {
		return 0, geom.Vec3{}, false
	}
	return tmin, normal, true
}
