package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Bus is the event bus the journal listens to.
type Bus interface {
	Ready() <-chan struct{}
	Subscribe(subject string, handler func(subject string, data []byte)) (func(), error)
}

// Entry is one journal line.
type Entry struct {
	Id      string          `json:"id"`
	Time    time.Time       `json:"time"`
	Subject string          `json:"subject"`
	Event   json.RawMessage `json:"event"`
}

// Journal records every event published on the bus to rotating compressed
// JSONL files.
type Journal struct {
	bus     Bus
	subject string
	w       *JSONLZstdWriter
}

// NewJournal writes entries for subject under dir.
func NewJournal(bus Bus, subject, dir string) *Journal {
	return &Journal{
		bus:     bus,
		subject: subject,
		w:       NewJSONLZstdWriter(filepath.Join(dir, "events"), "events"),
	}
}

// Record appends one bus message.
func (j *Journal) Record(subject string, data []byte) error {
	e := Entry{
		Id:      uuid.New().String(),
		Time:    j.w.now().UTC(),
		Subject: subject,
		Event:   json.RawMessage(data),
	}
	if !json.Valid(data) {
		raw, err := json.Marshal(string(data))
		if err != nil {
			return err
		}
		e.Event = raw
	}
	return j.w.Write(e)
}

// Start subscribes once the bus is ready and records until ctx is done.
func (j *Journal) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-j.bus.Ready():
	}

	unsub, err := j.bus.Subscribe(j.subject, func(subject string, data []byte) {
		err := j.Record(subject, data)
		if errors.Is(err, ErrClosed) {
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "writing journal entry", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing journal: %w", err)
	}
	slog.InfoContext(ctx, "journal recording", "subject", j.subject)

	<-ctx.Done()
	unsub()
	// Handlers still in flight after unsub see ErrClosed instead of
	// reopening a file.
	return j.w.Close()
}
