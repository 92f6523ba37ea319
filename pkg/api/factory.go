package api

import (
	"net"
	"os"
	"time"

	"github.com/grovetools/tapview/errors"
)

// New returns a Client for cfg. When a socket path is configured the socket
// must exist and accept connections, so a missing backend is reported here
// rather than on the first request.
func New(cfg Config) (Client, error) {
	if cfg.SocketPath != "" {
		if _, err := os.Stat(cfg.SocketPath); err != nil {
			return nil, errors.Unreachable(cfg.SocketPath, err)
		}
		conn, err := net.DialTimeout("unix", cfg.SocketPath, 100*time.Millisecond)
		if err != nil {
			return nil, errors.Unreachable(cfg.SocketPath, err)
		}
		conn.Close()
	}

	client, err := NewRemoteClient(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "cannot create backend client")
	}
	return client, nil
}
