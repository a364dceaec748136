package command

import (
	"fmt"

	"github.com/pixil98/go-stealth/internal/journal"
	"github.com/pixil98/go-stealth/internal/messaging"
)

type JournalConfig struct {
	Dir string `json:"dir,omitempty"`
}

func (c *JournalConfig) Validate() error {
	return nil
}

func (c *JournalConfig) Enabled() bool {
	return c.Dir != ""
}

func (c *JournalConfig) BuildJournal(bus journal.Bus) (*journal.Journal, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("journal dir is not set")
	}
	return journal.NewJournal(bus, messaging.SubjectAll, c.Dir), nil
}
