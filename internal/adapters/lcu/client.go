package lcu

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrSummonerNotFound is returned when no account matches a name.
var ErrSummonerNotFound = errors.New("lcu: summoner not found")

// StatusError is a non-2xx reply from the REST API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lcu: %s %s -> %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Summoner is the subset of /lol-summoner/v1/summoners the bot needs.
type Summoner struct {
	AccountID     int64  `json:"accountId"`
	SummonerID    int64  `json:"summonerId"`
	DisplayName   string `json:"displayName"`
	GameName      string `json:"gameName"`
	TagLine       string `json:"tagLine"`
	InternalName  string `json:"internalName"`
	Puuid         string `json:"puuid"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Name is the best human-readable name the client reported.
func (s Summoner) Name() string {
	switch {
	case s.DisplayName != "":
		return s.DisplayName
	case s.GameName != "" && s.TagLine != "":
		return s.GameName + "#" + s.TagLine
	case s.GameName != "":
		return s.GameName
	}
	return s.InternalName
}

// Invitation is one entry of the lobby invitation list.
type Invitation struct {
	ToSummonerID   int64  `json:"toSummonerId"`
	ToSummonerName string `json:"toSummonerName,omitempty"`
	State          string `json:"state,omitempty"`
}

// Client calls the local REST API with basic auth.
type Client struct {
	Base string
	HTTP *http.Client

	user, pass string
	log        *zap.Logger
}

func NewClient(creds Credentials, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	// locally issued self-signed certificate
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	return &Client{
		Base: creds.BaseURL(),
		HTTP: &http.Client{Timeout: 6 * time.Second, Transport: tr},
		user: creds.Username,
		pass: creds.Password,
		log:  log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.Base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("lcu: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("lcu: %s %s: %w", method, path, err)
	}
	req.SetBasicAuth(c.user, c.pass)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("lcu: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		serr := &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return serr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("lcu: decode %s %s: %w", method, path, err)
	}
	return nil
}

// AppName returns the client's application name; used as a credentials probe.
func (c *Client) AppName(ctx context.Context) (string, error) {
	var name string
	if err := c.do(ctx, http.MethodGet, URIAppName, nil, nil, &name); err != nil {
		return "", err
	}
	return name, nil
}

// SummonerByName resolves an in-game name to an account.
func (c *Client) SummonerByName(ctx context.Context, name string) (Summoner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Summoner{}, ErrSummonerNotFound
	}
	var s Summoner
	err := c.do(ctx, http.MethodGet, URISummoners, url.Values{"name": {name}}, nil, &s)
	var serr *StatusError
	if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
		return Summoner{}, fmt.Errorf("%w: %q", ErrSummonerNotFound, name)
	}
	if err != nil {
		return Summoner{}, err
	}
	if s.SummonerID == 0 {
		return Summoner{}, fmt.Errorf("%w: %q", ErrSummonerNotFound, name)
	}
	return s, nil
}

// Invite sends one lobby invitation request for all ids.
func (c *Client) Invite(ctx context.Context, summonerIDs []int64) ([]Invitation, error) {
	if len(summonerIDs) == 0 {
		return nil, nil
	}
	in := make([]Invitation, 0, len(summonerIDs))
	for _, id := range summonerIDs {
		in = append(in, Invitation{ToSummonerID: id})
	}
	var out []Invitation
	if err := c.do(ctx, http.MethodPost, URIInvitations, nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}
