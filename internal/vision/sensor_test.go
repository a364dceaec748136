package vision

import (
	"context"
	"testing"

	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/geom"
	"github.com/pixil98/go-stealth/internal/physics"
	"github.com/pixil98/go-testutil"
)

type recordingObserver struct {
	items  []*game.Item
	agents []*game.Agent
}

func (o *recordingObserver) OnItemSeen(_ context.Context, _ *game.Agent, item *game.Item) {
	o.items = append(o.items, item)
}

func (o *recordingObserver) OnAgentSeen(_ context.Context, _, seen *game.Agent) {
	o.agents = append(o.agents, seen)
}

func testConfig(rays int) Config {
	cfg := DefaultConfig()
	cfg.RayCount = rays
	cfg.Height = 1
	return cfg
}

// rightWall sits ahead and to the right of an agent at the origin facing +Z.
func rightWall() *physics.Collider {
	return &physics.Collider{
		ID:    "right",
		Min:   geom.V3(0.5, 0, 2),
		Max:   geom.V3(5, 3, 3),
		Layer: physics.LayerWall,
	}
}

func TestSensor_BoundaryCounts(t *testing.T) {
	tests := map[string]struct {
		rays     int
		walls    []*physics.Collider
		track    bool
		expTris  int
		expOccl  []bool
		expPoint int
	}{
		"open ground": {
			rays:     4,
			track:    true,
			expTris:  4,
			expOccl:  []bool{false, false, false, false, false},
			expPoint: 6,
		},
		"occlusion edge skipped": {
			rays:     2,
			walls:    []*physics.Collider{rightWall()},
			track:    true,
			expTris:  1,
			expOccl:  []bool{false, false, true},
			expPoint: 4,
		},
		"occlusion tracking off": {
			rays:     2,
			walls:    []*physics.Collider{rightWall()},
			expTris:  2,
			expOccl:  []bool{false, false, true},
			expPoint: 4,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			space := physics.NewSpace()
			for _, w := range tt.walls {
				space.AddCollider(w)
			}
			a := game.NewAgent("guard", geom.Vec3{}, 0, 2, 90, 0.3)
			cfg := testConfig(tt.rays)
			cfg.TrackOcclusion = tt.track
			s := NewSensor(a, space, cfg)

			s.Update()
			b := s.Boundary()

			testutil.AssertEqual(t, "points", len(b.Points), tt.expPoint)
			testutil.AssertEqual(t, "triangles", b.Triangles(), tt.expTris)
			testutil.AssertEqual(t, "occlusion entries", len(b.Occluded), len(tt.expOccl))
			for i := range tt.expOccl {
				testutil.AssertEqual(t, "occluded", b.Occluded[i], tt.expOccl[i])
			}
			testutil.AssertEqual(t, "apex", b.Points[0], geom.V3(0, 1, 0))
			if len(b.Indices) > tt.rays*3 {
				t.Errorf("too many indices: %d", len(b.Indices))
			}
		})
	}
}

func TestSensor_BoundaryEndpoints(t *testing.T) {
	space := physics.NewSpace()
	space.AddCollider(rightWall())
	a := game.NewAgent("guard", geom.Vec3{}, 0, 2, 90, 0.3)
	s := NewSensor(a, space, testConfig(2))

	s.Update()
	b := s.Boundary()

	straight := b.Points[2]
	testutil.AssertEqual(t, "open ray reaches radius", round(straight.Dist(b.Points[0])), 8.0)

	hit := b.Points[3]
	testutil.AssertEqual(t, "blocked ray stops on wall x", round(hit.X), 2.0)
	testutil.AssertEqual(t, "blocked ray stops on wall z", round(hit.Z), 2.0)
}

func TestSensor_IsVisible(t *testing.T) {
	tests := map[string]struct {
		point    geom.Vec3
		walls    []*physics.Collider
		disabled bool
		removed  bool
		exp      bool
	}{
		"straight ahead": {
			point: geom.V3(0, 0, 5),
			exp:   true,
		},
		"beyond radius": {
			point: geom.V3(0, 0, 9),
		},
		"behind": {
			point: geom.V3(0, 0, -3),
		},
		"on the cone edge": {
			point: geom.V3(3, 0, 3),
			exp:   true,
		},
		"just outside the cone": {
			point: geom.V3(3, 0, 2.9),
		},
		"behind a wall": {
			point: geom.V3(2, 0, 5),
			walls: []*physics.Collider{rightWall()},
		},
		"wall on the other side": {
			point: geom.V3(-2, 0, 5),
			walls: []*physics.Collider{rightWall()},
			exp:   true,
		},
		"disabled": {
			point:    geom.V3(0, 0, 5),
			disabled: true,
		},
		"owner removed": {
			point:   geom.V3(0, 0, 5),
			removed: true,
		},
		"at the eye": {
			point: geom.V3(0, 1, 0),
			exp:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			space := physics.NewSpace()
			for _, w := range tt.walls {
				space.AddCollider(w)
			}
			ws := game.NewWorldState()
			a := game.NewAgent("guard", geom.Vec3{}, 0, 2, 90, 0.3)
			if err := ws.AddAgent(a); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s := NewSensor(a, space, testConfig(8))
			s.SetEnabled(!tt.disabled)
			if tt.removed {
				if err := ws.RemoveAgent("guard"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			testutil.AssertEqual(t, "visible", s.IsVisible(tt.point), tt.exp)
		})
	}
}

func TestSensor_FollowsFacing(t *testing.T) {
	a := game.NewAgent("guard", geom.Vec3{}, 90, 2, 90, 0.3)
	s := NewSensor(a, physics.NewSpace(), testConfig(8))

	testutil.AssertEqual(t, "+x visible", s.IsVisible(geom.V3(5, 0, 0)), true)
	testutil.AssertEqual(t, "+z hidden", s.IsVisible(geom.V3(0, 0, 5)), false)
}

func TestSensor_ZeroRadius(t *testing.T) {
	a := game.NewAgent("guard", geom.Vec3{}, 0, 2, 90, 0.3)
	cfg := testConfig(4)
	cfg.Radius = 0
	s := NewSensor(a, physics.NewSpace(), cfg)

	s.Update()

	for _, p := range s.Boundary().Points {
		testutil.AssertEqual(t, "collapsed", p, geom.V3(0, 1, 0))
	}
	testutil.AssertEqual(t, "nothing visible", s.IsVisible(geom.V3(0, 0, 1)), false)
}

func TestSensor_Disabled(t *testing.T) {
	ws := game.NewWorldState()
	a := game.NewAgent("guard", geom.Vec3{}, 0, 2, 90, 0.3)
	if err := ws.AddAgent(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ws.AddItem(game.NewItem("vase", "", geom.V3(0, 0, 3))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := NewSensor(a, physics.NewSpace(), testConfig(4))
	s.Update()
	s.SetEnabled(false)
	obs := &recordingObserver{}

	s.Update()
	s.Detect(context.Background(), ws, obs)

	testutil.AssertEqual(t, "no boundary", len(s.Boundary().Points), 0)
	testutil.AssertEqual(t, "no sightings", len(obs.items), 0)
}

func TestSensor_Detect(t *testing.T) {
	ws := game.NewWorldState()
	guard := game.NewAgent("guard", geom.Vec3{}, 0, 2, 90, 0.3)
	ahead := game.NewAgent("ahead", geom.V3(0, 0, 4), 0, 2, 90, 0.3)
	behind := game.NewAgent("behind", geom.V3(0, 0, -4), 0, 2, 90, 0.3)
	for _, a := range []*game.Agent{guard, ahead, behind} {
		if err := ws.AddAgent(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	vase := game.NewItem("vase", "", geom.V3(1, 0, 3))
	hidden := game.NewItem("cup", "", geom.V3(0, 0, -2))
	carried := game.NewItem("book", "", geom.Vec3{})
	for _, i := range []*game.Item{vase, hidden, carried} {
		if err := ws.AddItem(i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	ws.PickUp(context.Background(), guard, carried)

	s := NewSensor(guard, physics.NewSpace(), testConfig(8))
	obs := &recordingObserver{}
	s.Detect(context.Background(), ws, obs)

	testutil.AssertEqual(t, "items seen", len(obs.items), 1)
	testutil.AssertEqual(t, "vase", obs.items[0], vase)
	testutil.AssertEqual(t, "agents seen", len(obs.agents), 1)
	testutil.AssertEqual(t, "ahead", obs.agents[0], ahead)
}

func TestSystem_Step(t *testing.T) {
	ws := game.NewWorldState()
	space := physics.NewSpace()
	sys := NewSystem(space)
	a := game.NewAgent("a", geom.Vec3{}, 0, 2, 90, 0.3)
	b := game.NewAgent("b", geom.V3(0, 0, 4), 180, 2, 90, 0.3)
	for _, ag := range []*game.Agent{a, b} {
		if err := ws.AddAgent(ag); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := sys.Attach(ag, testConfig(4)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	obs := &recordingObserver{}
	sys.Step(context.Background(), ws, obs)

	testutil.AssertEqual(t, "mutual sightings", len(obs.agents), 2)
	testutil.AssertEqual(t, "a boundary", len(sys.Sensor(a).Boundary().Points), 6)

	_, err := sys.Attach(a, Config{RayCount: 1})
	testutil.AssertErrorContains(t, err, "ray_count")
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		expErr string
	}{
		"defaults valid": {
			mutate: func(*Config) {},
		},
		"full circle valid": {
			mutate: func(c *Config) { c.ViewAngle = 360 },
		},
		"angle too wide": {
			mutate: func(c *Config) { c.ViewAngle = 361 },
			expErr: "view_angle",
		},
		"negative radius": {
			mutate: func(c *Config) { c.Radius = -1 },
			expErr: "radius",
		},
		"too few rays": {
			mutate: func(c *Config) { c.RayCount = 1 },
			expErr: "ray_count",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func round(f float64) float64 {
	return float64(int64(f*1000+0.5)) / 1000
}
