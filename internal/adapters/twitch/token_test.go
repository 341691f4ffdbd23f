package twitch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeTwitchAuth struct {
	srv        *httptest.Server
	mu         sync.Mutex
	valid      string
	refreshes  int32
	validCalls int32
}

func newFakeTwitchAuth(t *testing.T, valid string) *fakeTwitchAuth {
	t.Helper()
	f := &fakeTwitchAuth{valid: valid}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/validate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.validCalls, 1)
		f.mu.Lock()
		valid := f.valid
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "OAuth "+valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"message":"invalid access token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"client_id":"cid","login":"bot"}`))
	})
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.refreshes, 1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		if r.PostForm.Get("refresh_token") != "r1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		f.mu.Lock()
		f.valid = "a2"
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"a2","refresh_token":"r2","scope":["chat:read","chat:edit"],"token_type":"bearer","expires_in":14000}`))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTwitchAuth) option() TokenOption {
	return WithEndpoints(f.srv.URL+"/oauth2/token", f.srv.URL+"/oauth2/validate")
}

func writeToken(t *testing.T, tok Token) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "static", "token.json")
	require.NoError(t, SaveToken(path, tok))
	return path
}

func TestTokenManager_ValidTokenIsReused(t *testing.T) {
	f := newFakeTwitchAuth(t, "a1")
	path := writeToken(t, Token{AccessToken: "a1", RefreshToken: "r1", TokenType: "bearer"})

	m, err := NewTokenManager(path, "cid", "secret", zaptest.NewLogger(t), f.option())
	require.NoError(t, err)

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", tok)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.refreshes))
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.validCalls))
}

func TestTokenManager_RefreshesAndPersists(t *testing.T) {
	f := newFakeTwitchAuth(t, "other")
	path := writeToken(t, Token{AccessToken: "expired", RefreshToken: "r1", Scope: []string{"chat:read"}, TokenType: "bearer"})

	m, err := NewTokenManager(path, "cid", "secret", zaptest.NewLogger(t), f.option())
	require.NoError(t, err)

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", tok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.refreshes))

	onDisk, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, Token{AccessToken: "a2", RefreshToken: "r2", Scope: []string{"chat:read", "chat:edit"}, TokenType: "bearer"}, onDisk)
	assert.Equal(t, onDisk, m.Current())
}

func TestTokenManager_RefreshRejected(t *testing.T) {
	f := newFakeTwitchAuth(t, "other")
	path := writeToken(t, Token{AccessToken: "expired", RefreshToken: "revoked"})

	m, err := NewTokenManager(path, "cid", "secret", zaptest.NewLogger(t), f.option())
	require.NoError(t, err)

	_, err = m.AccessToken(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "expired", m.Current().AccessToken)
}

func TestTokenManager_NoRefreshToken(t *testing.T) {
	f := newFakeTwitchAuth(t, "other")
	path := writeToken(t, Token{AccessToken: "expired"})

	m, err := NewTokenManager(path, "cid", "secret", zaptest.NewLogger(t), f.option())
	require.NoError(t, err)
	_, err = m.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestNewTokenManager_MissingFile(t *testing.T) {
	_, err := NewTokenManager(filepath.Join(t.TempDir(), "nope.json"), "cid", "secret", nil)
	assert.Error(t, err)
}
