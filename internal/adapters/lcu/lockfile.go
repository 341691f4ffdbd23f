package lcu

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUsername is the fixed basic-auth user of the local client.
const DefaultUsername = "riot"

// Credentials locate and authenticate the local client.
type Credentials struct {
	Protocol string
	Address  string
	Port     int
	Username string
	Password string
}

func (c Credentials) hostPort() string {
	addr := c.Address
	if addr == "" {
		addr = "127.0.0.1"
	}
	return net.JoinHostPort(addr, strconv.Itoa(c.Port))
}

// SocketURL is the event socket endpoint. Credentials travel in the
// Authorization header, not in the URL.
func (c Credentials) SocketURL() string {
	return "wss://" + c.hostPort() + "/"
}

// BaseURL is the REST root.
func (c Credentials) BaseURL() string {
	proto := c.Protocol
	if proto == "" {
		proto = "https"
	}
	return proto + "://" + c.hostPort()
}

// Header carries basic auth for the websocket handshake.
func (c Credentials) Header() http.Header {
	h := http.Header{}
	raw := c.Username + ":" + c.Password
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(raw)))
	return h
}

// ErrBadLockfile marks a lockfile that exists but cannot be parsed yet.
var ErrBadLockfile = errors.New("lcu: malformed lockfile")

// ParseLockfile reads `name:pid:port:password:protocol`.
func ParseLockfile(content string) (Credentials, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 5 {
		return Credentials{}, fmt.Errorf("%w: want 5 fields, got %d", ErrBadLockfile, len(parts))
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil || port <= 0 || port > 65535 {
		return Credentials{}, fmt.Errorf("%w: bad port %q", ErrBadLockfile, parts[2])
	}
	if parts[3] == "" {
		return Credentials{}, fmt.Errorf("%w: empty password", ErrBadLockfile)
	}
	return Credentials{
		Protocol: parts[4],
		Address:  "127.0.0.1",
		Port:     port,
		Username: DefaultUsername,
		Password: parts[3],
	}, nil
}

func ReadLockfile(path string) (Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("lcu: read lockfile: %w", err)
	}
	return ParseLockfile(string(b))
}

// WaitForLockfile polls path until the client writes it or ctx ends.
func WaitForLockfile(ctx context.Context, path string, every time.Duration) (Credentials, error) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		creds, err := ReadLockfile(path)
		if err == nil {
			return creds, nil
		}
		// missing or half-written: keep polling
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrBadLockfile) {
			return Credentials{}, err
		}
		select {
		case <-ctx.Done():
			return Credentials{}, ctx.Err()
		case <-t.C:
		}
	}
}
