package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service/service"
	"github.com/pixil98/go-stealth/internal/listener"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// ConsoleProtocol is the transport a console listener speaks.
type ConsoleProtocol int

const (
	ConsoleTelnet ConsoleProtocol = iota
	ConsoleSSH
)

func (p ConsoleProtocol) String() string {
	if p == ConsoleSSH {
		return "ssh"
	}
	return "telnet"
}

func (p *ConsoleProtocol) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*p = ConsoleTelnet
	case "ssh":
		*p = ConsoleSSH
	default:
		return fmt.Errorf("unknown console protocol: %s", text)
	}
	return nil
}

func (p ConsoleProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ListenerConfig opens the remote console on one port.
type ListenerConfig struct {
	Protocol ConsoleProtocol `json:"protocol"`
	Port     uint16          `json:"port"`

	// HostKeyPath is the ssh host key. A missing file is created with a new
	// key so the fingerprint stays stable across restarts.
	HostKeyPath string `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) Validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.Protocol != ConsoleSSH && cl.HostKeyPath != "" {
		el.Add(fmt.Errorf("host_key_path is only used by ssh consoles"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ConsoleTelnet:
		logger := logrus.StandardLogger().WithField("console", cl.Protocol.String())
		return listener.NewTelnetListener(cl.Port, cm, listener.WithLogger(logger)), nil
	case ConsoleSSH:
		hostKey, err := cl.hostKey()
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.Port, cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown console protocol: %v", cl.Protocol)
	}
}

func (cl *ListenerConfig) hostKey() (ssh.Signer, error) {
	if cl.HostKeyPath == "" {
		slog.Warn("no host_key_path configured for ssh console, using an ephemeral key")
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generating ephemeral key: %w", err)
		}
		return ssh.NewSignerFromKey(key)
	}

	keyBytes, err := os.ReadFile(cl.HostKeyPath)
	if os.IsNotExist(err) {
		keyBytes, err = writeHostKey(cl.HostKeyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading host key %q: %w", cl.HostKeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing host key %q: %w", cl.HostKeyPath, err)
	}
	return signer, nil
}

// writeHostKey creates a new ed25519 key at path and returns its PEM bytes.
func writeHostKey(path string) ([]byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(key, "go-stealth console")
	if err != nil {
		return nil, fmt.Errorf("encoding host key: %w", err)
	}
	data := pem.EncodeToMemory(block)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing host key: %w", err)
	}
	slog.Info("generated ssh host key", "path", path)
	return data, nil
}
