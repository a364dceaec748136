package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-stealth/internal/display"
	"github.com/pixil98/go-stealth/internal/possession"
)

// Bus is the event bus a session reads from.
type Bus interface {
	Ready() <-chan struct{}
	Subscribe(subject string, handler func(subject string, data []byte)) (func(), error)
}

// Console hands each connection a session feeding the shared input buffer.
type Console struct {
	input   *possession.InputBuffer
	bus     Bus
	subject string
	width   int
}

func NewConsole(input *possession.InputBuffer, bus Bus, subject string) *Console {
	return &Console{
		input:   input,
		bus:     bus,
		subject: subject,
		width:   display.DefaultWidth,
	}
}

// Run serves one connection until it closes, quits or ctx ends.
func (c *Console) Run(ctx context.Context, conn io.ReadWriter) error {
	select {
	case <-ctx.Done():
		return nil
	case <-c.bus.Ready():
	}

	msgs := make(chan string, 64)
	unsub, err := c.bus.Subscribe(c.subject, func(subject string, data []byte) {
		text, ok := Describe(subject, data)
		if !ok {
			return
		}
		select {
		case msgs <- text:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing console: %w", err)
	}
	defer unsub()

	// The reader outlives Run only until this session's context ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go readLines(ctx, conn, lines, readErr)

	if err := c.writeLine(conn, "Type 'help' for a list of commands."); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-msgs:
			if err := c.writeLine(conn, msg); err != nil {
				return err
			}

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			quit, err := Exec(c.input, line)
			if err != nil {
				var userErr *UserError
				if !errors.As(err, &userErr) {
					return fmt.Errorf("executing %q: %w", line, err)
				}
				if err := c.writeLine(conn, userErr.Message); err != nil {
					return err
				}
			}
			if quit {
				if err := c.writeLine(conn, "Goodbye!"); err != nil {
					slog.WarnContext(ctx, "writing goodbye", "error", err)
				}
				return nil
			}
		}
	}
}

// readLines sends every line of r to lines until r ends or ctx is done. On
// end of input the scan error is sent and lines is closed.
func readLines(ctx context.Context, r io.Reader, lines chan<- string, readErr chan<- error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	readErr <- scanner.Err()
	close(lines)
}

func (c *Console) writeLine(w io.Writer, msg string) error {
	_, err := io.WriteString(w, display.WrapTo(msg, c.width)+"\n")
	return err
}
