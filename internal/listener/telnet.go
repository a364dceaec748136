package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
	"github.com/sirupsen/logrus"
)

// TelnetListener serves the console over telnet.
type TelnetListener struct {
	port   uint16
	cm     *ConnectionManager
	logger logrus.FieldLogger
}

type TelnetListenerOpt func(*TelnetListener)

// WithLogger sets the logger used for connection lifecycle messages.
func WithLogger(logger logrus.FieldLogger) TelnetListenerOpt {
	return func(l *TelnetListener) {
		l.logger = logger
	}
}

func NewTelnetListener(port uint16, cm *ConnectionManager, opts ...TelnetListenerOpt) *TelnetListener {
	l := &TelnetListener{
		port:   port,
		cm:     cm,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *TelnetListener) Start(ctx context.Context) error {
	handler := newTelnetHandler(l.cm.AcceptConnection, l.logger.WithFields(logrus.Fields{
		"listener": "telnet",
		"port":     l.port,
	}))

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), handler)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			handler.Stop()
		case <-done:
		}
	}()

	handler.logger.Info("console listening for telnet")
	err := svr.ListenAndServe()
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}

	return nil
}

// telnetHandler runs every connection under one context so shutdown ends
// them together.
type telnetHandler struct {
	wg          sync.WaitGroup
	accept      func(context.Context, io.ReadWriter)
	logger      logrus.FieldLogger
	connCtx     context.Context
	cancelConns context.CancelFunc
}

func newTelnetHandler(accept func(context.Context, io.ReadWriter), logger logrus.FieldLogger) *telnetHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &telnetHandler{
		accept:      accept,
		logger:      logger,
		connCtx:     ctx,
		cancelConns: cancel,
	}
}

func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Errorf("closing telnet connection: %s", err)
		}
	}()
	h.serve(conn)
}

func (h *telnetHandler) serve(conn io.ReadWriter) {
	h.wg.Add(1)
	defer h.wg.Done()

	h.logger.Info("telnet connection established")
	h.accept(h.connCtx, newCRLFReadWriter(conn))
	h.logger.Debug("telnet connection finished")
}

// Stop cancels every open connection and waits for them to return.
func (h *telnetHandler) Stop() {
	h.cancelConns()
	h.wg.Wait()
}
