package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrClosed is returned by Write once the writer has been closed.
var ErrClosed = errors.New("journal writer closed")

const hourLayout = "2006-01-02-15"

// JSONLZstdWriter appends one JSON document per line to zstd compressed
// files named <prefix>-<UTC hour>.jsonl.zst. Every write is flushed to the
// encoder so a crash loses at most the current compression block. Each file
// holds one zstd frame per process run; readers decode concatenated frames.
type JSONLZstdWriter struct {
	dir    string
	prefix string
	now    func() time.Time

	mu     sync.Mutex
	closed bool
	hour   string
	file   *os.File
	enc    *zstd.Encoder
	buf    *bufio.Writer
}

func NewJSONLZstdWriter(dir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
	}
}

// Write appends v, switching files when the hour changes.
func (w *JSONLZstdWriter) Write(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding journal line: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if hour := w.now().UTC().Format(hourLayout); hour != w.hour {
		if err := w.open(hour); err != nil {
			return err
		}
	}

	if _, err := w.buf.Write(append(line, '\n')); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close finishes the current file. Later writes fail with ErrClosed.
func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.finish()
}

// Path returns the file that entries written at t go to.
func (w *JSONLZstdWriter) Path(t time.Time) string {
	return w.pathFor(t.UTC().Format(hourLayout))
}

func (w *JSONLZstdWriter) pathFor(hour string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

func (w *JSONLZstdWriter) open(hour string) error {
	if err := w.finish(); err != nil {
		return fmt.Errorf("closing journal hour %s: %w", w.hour, err)
	}

	path := w.pathFor(hour)
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal file: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("creating journal encoder: %w", err)
	}

	w.hour = hour
	w.file = f
	w.enc = enc
	w.buf = bufio.NewWriterSize(enc, 32*1024)
	return nil
}

// finish flushes and closes the open file, if any.
func (w *JSONLZstdWriter) finish() error {
	if w.file == nil {
		return nil
	}

	var errs []error
	errs = append(errs, w.buf.Flush(), w.enc.Close(), w.file.Close())

	w.hour = ""
	w.file = nil
	w.enc = nil
	w.buf = nil
	return errors.Join(errs...)
}
