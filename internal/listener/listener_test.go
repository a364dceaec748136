package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/sirupsen/logrus"
)

type loopback struct {
	in  *bytes.Buffer
	out bytes.Buffer
}

func (l *loopback) Read(p []byte) (int, error)  { return l.in.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.out.Write(p) }

func TestCRLFReadWriter(t *testing.T) {
	tests := map[string]struct {
		read     string
		write    string
		expRead  string
		expWrite string
	}{
		"telnet line endings": {
			read:     "hold\r\nrelease\r\n",
			write:    "ok\n",
			expRead:  "hold\nrelease\n",
			expWrite: "ok\r\n",
		},
		"bare carriage return": {
			read:     "use\r",
			write:    "a\nb",
			expRead:  "use\n",
			expWrite: "a\r\nb",
		},
		"already unix": {
			read:     "stop\n",
			write:    "",
			expRead:  "stop\n",
			expWrite: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lb := &loopback{in: bytes.NewBufferString(tt.read)}
			rw := newCRLFReadWriter(lb)

			got, err := io.ReadAll(rw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			n, err := rw.Write([]byte(tt.write))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "read", string(got), tt.expRead)
			testutil.AssertEqual(t, "write", lb.out.String(), tt.expWrite)
			testutil.AssertEqual(t, "written length", n, len(tt.write))
		})
	}
}

type recordingRunner struct {
	conns []io.ReadWriter
	err   error
}

func (r *recordingRunner) Run(_ context.Context, conn io.ReadWriter) error {
	r.conns = append(r.conns, conn)
	return r.err
}

func TestConnectionManager_AcceptConnection(t *testing.T) {
	tests := map[string]struct {
		err error
	}{
		"clean close": {},
		"session error": {
			err: errors.New("connection reset"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &recordingRunner{err: tt.err}
			cm := NewConnectionManager(r)
			conn := &loopback{in: &bytes.Buffer{}}

			cm.AcceptConnection(context.Background(), conn)

			testutil.AssertEqual(t, "sessions", len(r.conns), 1)
			testutil.AssertEqual(t, "conn passed through", r.conns[0] == io.ReadWriter(conn), true)
		})
	}
}

func TestTelnetHandler_StopCancelsSessions(t *testing.T) {
	started := make(chan struct{})
	var seen io.ReadWriter
	h := newTelnetHandler(func(ctx context.Context, conn io.ReadWriter) {
		seen = conn
		close(started)
		<-ctx.Done()
	}, logrus.New())

	done := make(chan struct{})
	go func() {
		h.serve(&loopback{in: bytes.NewBufferString("use\r\n")})
		close(done)
	}()
	<-started

	h.Stop()
	<-done

	line, err := io.ReadAll(seen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "line endings normalised", string(line), "use\n")
}
