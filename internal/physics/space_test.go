package physics

import (
	"math"
	"testing"

	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-testutil"
)

func wall(id string, minX, minZ, maxX, maxZ float64) *Collider {
	return &Collider{
		ID:    id,
		Min:   geom.V3(minX, 0, minZ),
		Max:   geom.V3(maxX, 3, maxZ),
		Layer: LayerWall,
	}
}

func TestRaycast(t *testing.T) {
	tests := map[string]struct {
		colliders []*Collider
		origin    geom.Vec3
		dir       geom.Vec3
		maxDist   float64
		mask      LayerMask
		expHit    bool
		expDist   float64
		expId     string
	}{
		"hits wall ahead": {
			colliders: []*Collider{wall("w", -1, 4, 1, 5)},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   10,
			mask:      MaskSight,
			expHit:    true,
			expDist:   4,
			expId:     "w",
		},
		"wall beyond range": {
			colliders: []*Collider{wall("w", -1, 4, 1, 5)},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   3,
			mask:      MaskSight,
		},
		"filtered by mask": {
			colliders: []*Collider{wall("w", -1, 4, 1, 5)},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   10,
			mask:      LayerMask(LayerViewBlocker),
		},
		"nearest of two": {
			colliders: []*Collider{wall("far", -1, 8, 1, 9), wall("near", -1, 2, 1, 3)},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   10,
			mask:      MaskAll,
			expHit:    true,
			expDist:   2,
			expId:     "near",
		},
		"degenerate collider ignored": {
			colliders: []*Collider{{ID: "flat", Min: geom.V3(-1, 0, 4), Max: geom.V3(1, 0, 5), Layer: LayerWall}},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   10,
			mask:      MaskAll,
		},
		"nan collider ignored": {
			colliders: []*Collider{{ID: "nan", Min: geom.V3(math.NaN(), 0, 4), Max: geom.V3(1, 3, 5), Layer: LayerWall}},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   10,
			mask:      MaskAll,
		},
		"zero direction": {
			colliders: []*Collider{wall("w", -1, 4, 1, 5)},
			origin:    geom.V3(0, 1, 0),
			maxDist:   10,
			mask:      MaskAll,
		},
		"origin inside collider": {
			colliders: []*Collider{wall("w", -1, -1, 1, 1)},
			origin:    geom.V3(0, 1, 0),
			dir:       geom.V3(0, 0, 1),
			maxDist:   10,
			mask:      MaskAll,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSpace()
			for _, c := range tt.colliders {
				s.AddCollider(c)
			}

			hit, ok := s.Raycast(tt.origin, tt.dir, tt.maxDist, tt.mask)
			testutil.AssertEqual(t, "hit", ok, tt.expHit)
			if !tt.expHit {
				return
			}
			testutil.AssertEqual(t, "distance", math.Round(hit.Distance*1000)/1000, tt.expDist)
			testutil.AssertEqual(t, "collider", hit.Collider, tt.expId)
			testutil.AssertEqual(t, "normal", hit.Normal, geom.V3(0, 0, -1))
		})
	}
}

func TestMoveKinematic_Slides(t *testing.T) {
	s := NewSpace()
	s.AddCollider(wall("w", -10, 2, 10, 3))
	b := &Body{ID: "a", Radius: 0.5}
	if err := s.AddBody(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Diagonal push into the wall: z stops at the grown edge, x keeps moving.
	got := s.MoveKinematic("a", geom.V3(1, 0, 5))

	testutil.AssertEqual(t, "x moved", got.X, 1.0)
	testutil.AssertEqual(t, "z stopped at edge", b.Position.Z, 1.5)

	// Pushing again does not clip through.
	s.MoveKinematic("a", geom.V3(0, 0, 5))
	testutil.AssertEqual(t, "still at edge", b.Position.Z, 1.5)
}

func TestMoveKinematic_UnknownBody(t *testing.T) {
	s := NewSpace()
	got := s.MoveKinematic("missing", geom.V3(1, 0, 0))
	testutil.AssertEqual(t, "no movement", got, geom.Vec3{})
}

func TestOverlapSphere(t *testing.T) {
	s := NewSpace()
	for _, b := range []*Body{
		{ID: "near", Position: geom.V3(1, 0, 0), Radius: 0.5},
		{ID: "far", Position: geom.V3(10, 0, 0), Radius: 0.5},
		{ID: "touching", Position: geom.V3(0, 0, 2.4), Radius: 0.5},
	} {
		if err := s.AddBody(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := s.OverlapSphere(geom.Vec3{}, 2)
	testutil.AssertEqual(t, "count", len(got), 2)
	testutil.AssertEqual(t, "first", got[0], BodyID("near"))
	testutil.AssertEqual(t, "second", got[1], BodyID("touching"))
}

func TestAddBody_Duplicate(t *testing.T) {
	s := NewSpace()
	if err := s.AddBody(&Body{ID: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.AddBody(&Body{ID: "a"})
	testutil.AssertErrorContains(t, err, "already registered")
}

func TestStep_NavigationIsPerStep(t *testing.T) {
	s := NewSpace()
	b := &Body{ID: "a", Radius: 0.25, Speed: 2}
	if err := s.AddBody(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.NavigateTo("a", geom.V3(0, 0, 10))
	s.Step(0.5)
	testutil.AssertEqual(t, "moved one step", b.Position.Z, 1.0)
	testutil.AssertEqual(t, "faces motion", math.Round(b.Yaw), 0.0)

	// No request this step: the body halts instead of drifting.
	s.Step(0.5)
	testutil.AssertEqual(t, "halted", b.Position.Z, 1.0)
	testutil.AssertEqual(t, "velocity cleared", b.Velocity, geom.Vec3{})
}

func TestStep_ManualVelocityKept(t *testing.T) {
	s := NewSpace()
	b := &Body{ID: "a", Velocity: geom.V3(1, 0, 0)}
	if err := s.AddBody(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Step(1)
	s.Step(1)
	testutil.AssertEqual(t, "x", b.Position.X, 2.0)
	testutil.AssertEqual(t, "faces +x", math.Round(b.Yaw), 90.0)
}

func TestStep_NavigatesAroundWall(t *testing.T) {
	s := NewSpace()
	s.AddCollider(wall("w", -3, 4, 3, 5))
	s.SetNavGrid(NewNavGrid(s, geom.V3(-8, 0, -2), geom.V3(8, 0, 12), 0.5, 0.3))

	b := &Body{ID: "a", Radius: 0.3, Speed: 4}
	if err := s.AddBody(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	goal := geom.V3(0, 0, 9)
	for i := 0; i < 400 && b.Position.Dist(goal) > 0.1; i++ {
		s.NavigateTo("a", goal)
		s.Step(0.05)
	}

	if d := b.Position.Dist(goal); d > 0.1 {
		t.Fatalf("did not reach goal, still %.2f away at %v", d, b.Position)
	}
}

func TestStep_ReplansAfterReposition(t *testing.T) {
	tests := map[string]struct {
		moveTo geom.Vec3
	}{
		"past the wall": {
			moveTo: geom.V3(0, 0, 7),
		},
		"back to the start": {
			moveTo: geom.V3(0, 0, 0),
		},
		"beside the wall": {
			moveTo: geom.V3(-5, 0, 4.5),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSpace()
			s.AddCollider(wall("w", -3, 4, 3, 5))
			s.SetNavGrid(NewNavGrid(s, geom.V3(-8, 0, -2), geom.V3(8, 0, 12), 0.5, 0.3))

			b := &Body{ID: "a", Radius: 0.3, Speed: 4}
			if err := s.AddBody(b); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			goal := geom.V3(0, 0, 9)
			for range 5 {
				s.NavigateTo("a", goal)
				s.Step(0.05)
			}

			// Someone else moved the body; the target is unchanged.
			b.Position = tt.moveTo
			b.Stop()

			for i := 0; i < 400 && b.Position.Dist(goal) > 0.1; i++ {
				s.NavigateTo("a", goal)
				s.Step(0.05)
			}

			if d := b.Position.Dist(goal); d > 0.1 {
				t.Fatalf("did not reach goal, still %.2f away at %v", d, b.Position)
			}
		})
	}
}

func TestNavGrid_FindPath(t *testing.T) {
	s := NewSpace()
	s.AddCollider(wall("w", -3, 4, 3, 5))
	g := NewNavGrid(s, geom.V3(-8, 0, -2), geom.V3(8, 0, 12), 0.5, 0.3)

	path, ok := g.FindPath(geom.V3(0, 0, 0), geom.V3(0, 0, 9))
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "ends at goal", path[len(path)-1], geom.V3(0, 0, 9))
	for _, p := range path {
		if !g.Walkable(p) {
			t.Errorf("path point %v is not walkable", p)
		}
	}

	_, ok = g.FindPath(geom.V3(0, 0, 0), geom.V3(0, 0, 4.5))
	testutil.AssertEqual(t, "goal inside wall", ok, false)

	_, ok = g.FindPath(geom.V3(0, 0, 0), geom.V3(100, 0, 0))
	testutil.AssertEqual(t, "goal off grid", ok, false)
}

func TestDoor(t *testing.T) {
	s := NewSpace()
	blocker := &Collider{ID: "door", Min: geom.V3(-1, 0, 4), Max: geom.V3(1, 3, 4.2), Layer: LayerViewBlocker}
	d := NewDoor(blocker, geom.V3(0, 0, 4), 1)
	s.AddDoor(d)

	b := &Body{ID: "a", Position: geom.V3(0, 0, 10), Radius: 0.3}
	if err := s.AddBody(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Step(0.1)
	testutil.AssertEqual(t, "closed", d.Open(), false)
	_, blocked := s.Raycast(geom.V3(0, 1, 0), geom.V3(0, 0, 1), 10, MaskSight)
	testutil.AssertEqual(t, "closed blocks sight", blocked, true)

	b.Position = geom.V3(0, 0, 4.5)
	s.Step(0.1)
	testutil.AssertEqual(t, "open", d.Open(), true)
	_, blocked = s.Raycast(geom.V3(0, 1, 0), geom.V3(0, 0, 1), 10, MaskSight)
	testutil.AssertEqual(t, "open lets sight through", blocked, false)

	b.Position = geom.V3(0, 0, 10)
	s.Step(0.1)
	testutil.AssertEqual(t, "closed again", blocker.Layer, LayerViewBlocker)
}
