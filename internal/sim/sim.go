package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-stealth/internal/driver"
	"github.com/pixil98/go-stealth/internal/game"
	"github.com/pixil98/go-stealth/internal/hud"
	"github.com/pixil98/go-stealth/internal/level"
	"github.com/pixil98/go-stealth/internal/physics"
	"github.com/pixil98/go-stealth/internal/possession"
	"github.com/pixil98/go-stealth/internal/round"
	"github.com/pixil98/go-stealth/internal/tuning"
	"github.com/pixil98/go-stealth/internal/vision"
)

// Simulation is one level being played: the world, its physical space and
// everything that acts on them each frame.
type Simulation struct {
	World      *game.WorldState
	Space      *physics.Space
	Sensors    *vision.System
	Controller *possession.Controller
	HandOff    *possession.HandOff
	Round      *round.Manager
	HUD        *hud.HUD
	Input      *possession.InputBuffer

	listeners game.Listeners
	camera    possession.Camera
	prompter  hud.Prompter
	template  string

	frame possession.Input
}

type SimulationOpt func(*Simulation)

// WithListener adds a receiver for world events next to the round manager.
func WithListener(l game.Listener) SimulationOpt {
	return func(s *Simulation) {
		s.listeners = append(s.listeners, l)
	}
}

// WithCamera sets what follows the possessed agent.
func WithCamera(cam possession.Camera) SimulationOpt {
	return func(s *Simulation) {
		s.camera = cam
	}
}

// WithPrompter enables the HUD, rendering tmpl (or the default template when
// empty) to p.
func WithPrompter(p hud.Prompter, tmpl string) SimulationOpt {
	return func(s *Simulation) {
		s.prompter = p
		s.template = tmpl
	}
}

// New builds lvl with the given tuning.
func New(tu tuning.Tuning, lvl *level.Level, opts ...SimulationOpt) (*Simulation, error) {
	if err := tu.Validate(); err != nil {
		return nil, fmt.Errorf("validating tuning: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("validating level: %w", err)
	}

	s := &Simulation{
		Input: &possession.InputBuffer{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.World = game.NewWorldState(game.WithSpeedModifiers(tu.SpeedModifiers))
	s.Space = physics.NewSpace()
	s.Sensors = vision.NewSystem(s.Space)
	if err := lvl.Build(tu, s.World, s.Space, s.Sensors); err != nil {
		return nil, fmt.Errorf("building level %q: %w", lvl.Name, err)
	}

	ctrlOpts := []possession.ControllerOpt{
		possession.WithSwitchDistance(tu.SwitchDistance),
		possession.WithInteractDistance(tu.InteractDistance),
	}
	if s.camera != nil {
		ctrlOpts = append(ctrlOpts, possession.WithCamera(s.camera))
	}
	s.Controller = possession.NewController(s.World, s.Space, ctrlOpts...)
	s.HandOff = possession.NewHandOff(s.Controller, tu.MaxHoldDuration)
	s.Round = round.NewManager(s.World, s.Controller, s.HandOff, lvl.StartAgent(),
		round.WithPreGameDelay(tu.PreGameDelay),
		round.WithDuration(tu.RoundDuration),
	)
	s.World.SetListener(append(game.Listeners{s.Round}, s.listeners...))

	if s.prompter != nil {
		h, err := hud.NewHUD(s.prompter, s.template)
		if err != nil {
			return nil, err
		}
		s.HUD = h
	}

	return s, nil
}

// Stages returns the frame in the order it must run.
func (s *Simulation) Stages() []driver.Stage {
	return []driver.Stage{
		driver.StageFunc(s.stepPhysics),
		driver.StageFunc(s.stepVision),
		driver.StageFunc(s.stepAgents),
		driver.StageFunc(s.stepRound),
		driver.StageFunc(s.stepHUD),
	}
}

// Step runs every stage once.
func (s *Simulation) Step(ctx context.Context, f driver.Frame) error {
	for _, st := range s.Stages() {
		if err := st.Step(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) stepPhysics(_ context.Context, f driver.Frame) error {
	s.Space.Step(f.Dt.Seconds())
	return nil
}

func (s *Simulation) stepVision(ctx context.Context, _ driver.Frame) error {
	s.Sensors.Step(ctx, s.World, s)
	return nil
}

// stepAgents advances every autonomous agent's task queue and applies this
// frame's input to the possessed one.
func (s *Simulation) stepAgents(ctx context.Context, f driver.Frame) error {
	for _, a := range s.World.Agents() {
		if a.Brain == nil || a.Possessed() {
			continue
		}
		a.Brain.Step(ctx, s.World, a, s.Space)
	}

	s.frame = s.Input.Drain()
	s.Controller.Move(s.Controller.Selected(), s.frame.Move)
	if s.frame.Interact {
		s.Controller.Interact(ctx)
	}
	if s.HandOff.Step(ctx, f.Now, s.frame) {
		slog.DebugContext(ctx, "hand-off committed", "agent", s.Controller.Selected().Id)
	}
	s.Controller.Flush(ctx)
	return nil
}

func (s *Simulation) stepRound(ctx context.Context, f driver.Frame) error {
	s.Round.Step(ctx, f.Now, s.frame)
	return nil
}

func (s *Simulation) stepHUD(ctx context.Context, f driver.Frame) error {
	if s.HUD == nil {
		return nil
	}
	return s.HUD.Step(ctx, s.View(f))
}

// View collects what the HUD shows for frame f.
func (s *Simulation) View(f driver.Frame) hud.View {
	v := hud.View{
		Round:     s.Round.State().String(),
		Remaining: s.Round.Remaining(f.Now),
		Returned:  s.Round.Returned(),
		Progress:  s.HandOff.Progress(f.Now),
	}
	if a := s.Controller.Selected(); a != nil {
		v.Possessed = a.Id
		if held := a.Held(); held != nil {
			v.Holding = held.Id
		}
	}
	if a := s.Controller.NearestSwitchable(); a != nil {
		v.Switchable = a.Id
	}
	if item := s.Controller.NearestItem(); item != nil {
		v.Item = item.Id
	}
	if a := s.HandOff.Pending(); a != nil {
		v.Pending = a.Id
	}
	return v
}

// OnItemSeen satisfies vision.Observer. Only autonomous agents act on what
// they see.
func (s *Simulation) OnItemSeen(ctx context.Context, viewer *game.Agent, item *game.Item) {
	if viewer.Possessed() || viewer.Brain == nil {
		return
	}
	viewer.Brain.OnItemSeen(ctx, viewer, item)
}

// OnAgentSeen satisfies vision.Observer.
func (s *Simulation) OnAgentSeen(_ context.Context, viewer, seen *game.Agent) {
	if viewer.Possessed() {
		return
	}
	s.Controller.ReportSighting(seen)
}
