package command

import (
	"fmt"

	"github.com/pixil98/go-service/service"
	"github.com/pixil98/go-stealth/internal/console"
	"github.com/pixil98/go-stealth/internal/driver"
	"github.com/pixil98/go-stealth/internal/listener"
	"github.com/pixil98/go-stealth/internal/messaging"
	"github.com/pixil98/go-stealth/internal/sim"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tu, err := cfg.loadTuning()
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}
	lvl, err := cfg.Level.LoadLevel()
	if err != nil {
		return nil, fmt.Errorf("loading level: %w", err)
	}

	// Event bus
	bus, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(bus)

	// Simulation
	s, err := sim.New(tu, lvl,
		sim.WithListener(publisher),
		sim.WithCamera(publisher),
		sim.WithPrompter(publisher, cfg.HUDTemplate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	// Create Listeners
	cm := listener.NewConnectionManager(console.NewConsole(s.Input, bus, messaging.SubjectAll))
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		listener, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = listener
	}

	// Setup the frame driver
	driver := driver.NewFrameDriver(s.Stages(), driver.WithFrameInterval(cfg.frameInterval()))

	workers := service.WorkerList{
		"nats":      bus,
		"driver":    driver,
		"listeners": &listeners,
	}

	if cfg.Journal.Enabled() {
		j, err := cfg.Journal.BuildJournal(bus)
		if err != nil {
			return nil, fmt.Errorf("creating journal: %w", err)
		}
		workers["journal"] = j
	}

	return workers, nil
}
