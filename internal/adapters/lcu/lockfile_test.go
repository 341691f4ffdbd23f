package lcu

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLockfile(t *testing.T) {
	c, err := ParseLockfile("LeagueClient:1234:50123:s3cr3t:https\n")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Protocol: "https", Address: "127.0.0.1", Port: 50123, Username: "riot", Password: "s3cr3t"}, c)
	assert.Equal(t, "wss://127.0.0.1:50123/", c.SocketURL())
	assert.Equal(t, "https://127.0.0.1:50123", c.BaseURL())
	assert.Equal(t, "Basic cmlvdDpzM2NyM3Q=", c.Header().Get("Authorization"))
}

func TestParseLockfileBad(t *testing.T) {
	for _, raw := range []string{"", "a:b:c", "LeagueClient:1:port:pw:https", "LeagueClient:1:99999:pw:https", "LeagueClient:1:2::https"} {
		_, err := ParseLockfile(raw)
		assert.ErrorIs(t, err, ErrBadLockfile, "%q", raw)
	}
}

func TestWaitForLockfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, []byte("LeagueClient:1:4242:pw:https"), 0o600)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := WaitForLockfile(ctx, path, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 4242, c.Port)
}

func TestWaitForLockfileCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := WaitForLockfile(ctx, filepath.Join(t.TempDir(), "missing"), 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
