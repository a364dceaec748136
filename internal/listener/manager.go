package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner serves one connection.
type SessionRunner interface {
	Run(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	sessions SessionRunner
}

func NewConnectionManager(sr SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sessions: sr,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	slog.InfoContext(ctx, "console session opened")
	if err := m.sessions.Run(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
		return
	}
	slog.InfoContext(ctx, "console session closed")
}
