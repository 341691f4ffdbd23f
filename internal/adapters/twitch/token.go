package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	DefaultTokenURL    = "https://id.twitch.tv/oauth2/token"
	DefaultValidateURL = "https://id.twitch.tv/oauth2/validate"
)

var ErrNoRefreshToken = errors.New("twitch: token file has no refresh token")

// Token is the on-disk record, in the shape Twitch returns it.
type Token struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Scope        []string `json:"scope"`
	TokenType    string   `json:"token_type"`
}

func LoadToken(path string) (Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Token{}, fmt.Errorf("twitch: read token file: %w", err)
	}
	var t Token
	if err := json.Unmarshal(b, &t); err != nil {
		return Token{}, fmt.Errorf("twitch: decode token file %s: %w", path, err)
	}
	return t, nil
}

func SaveToken(path string, t Token) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("twitch: token dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("twitch: write token file: %w", err)
	}
	return nil
}

// TokenManager hands out a valid chat token, refreshing and persisting it
// when validation fails.
type TokenManager struct {
	path        string
	oauth       *oauth2.Config
	validateURL string
	http        *http.Client
	log         *zap.Logger

	mu  sync.Mutex
	tok Token
}

type TokenOption func(*TokenManager)

// WithEndpoints points the manager at other token/validate URLs.
func WithEndpoints(tokenURL, validateURL string) TokenOption {
	return func(m *TokenManager) {
		m.oauth.Endpoint.TokenURL = tokenURL
		m.validateURL = validateURL
	}
}

func WithHTTPClient(c *http.Client) TokenOption {
	return func(m *TokenManager) { m.http = c }
}

// NewTokenManager loads the token file at path. A missing file is an error.
func NewTokenManager(path, clientID, clientSecret string, log *zap.Logger, opts ...TokenOption) (*TokenManager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tok, err := LoadToken(path)
	if err != nil {
		return nil, err
	}
	m := &TokenManager{
		path: path,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  DefaultTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		validateURL: DefaultValidateURL,
		http:        &http.Client{Timeout: 10 * time.Second},
		log:         log,
		tok:         tok,
	}
	for _, o := range opts {
		o(m)
	}
	log.Info("token loaded", zap.String("path", path), zap.Strings("scope", tok.Scope))
	return m, nil
}

// Current returns the token as last loaded or refreshed.
func (m *TokenManager) Current() Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

// AccessToken validates the current token and refreshes it if needed.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := m.validate(ctx, m.tok.AccessToken)
	if err != nil {
		m.log.Warn("token validation failed", zap.Error(err))
	}
	if ok {
		return m.tok.AccessToken, nil
	}
	m.log.Info("refreshing token")
	if err := m.refresh(ctx); err != nil {
		return "", err
	}
	return m.tok.AccessToken, nil
}

func (m *TokenManager) validate(ctx context.Context, access string) (bool, error) {
	if access == "" {
		return false, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.validateURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "OAuth "+access)
	resp, err := m.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("twitch: validate: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (m *TokenManager) refresh(ctx context.Context) error {
	if m.tok.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.http)
	// an empty access token forces the source to refresh
	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: m.tok.RefreshToken})
	nt, err := src.Token()
	if err != nil {
		return fmt.Errorf("twitch: refresh token: %w", err)
	}

	next := Token{
		AccessToken:  nt.AccessToken,
		RefreshToken: nt.RefreshToken,
		Scope:        scopeOf(nt),
		TokenType:    nt.TokenType,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = m.tok.RefreshToken
	}
	if next.Scope == nil {
		next.Scope = m.tok.Scope
	}
	m.tok = next
	if err := SaveToken(m.path, next); err != nil {
		m.log.Error("could not persist refreshed token", zap.Error(err))
		return nil
	}
	m.log.Info("token refreshed", zap.String("path", m.path))
	return nil
}

func scopeOf(t *oauth2.Token) []string {
	raw, ok := t.Extra("scope").([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if v, ok := s.(string); ok {
			out = append(out, v)
		}
	}
	return out
}
