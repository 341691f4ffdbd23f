// Package twitch is the Twitch chat transport: IRC over WebSocket plus the
// OAuth token file the bot account logs in with.
package twitch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
)

const DefaultChatURL = "wss://irc-ws.chat.twitch.tv:443"

var (
	ErrNotConnected = errors.New("twitch: not connected")
	ErrLoginFailed  = errors.New("twitch: login authentication failed")
	errReconnect    = errors.New("twitch: server asked to reconnect")
)

// TokenSource yields the access token used for PASS.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Config struct {
	Username string
	Channel  string // defaults to Username
	URL      string // defaults to DefaultChatURL
}

// Client implements chat.Transport for one Twitch channel.
type Client struct {
	cfg    Config
	tokens TokenSource
	dialer *websocket.Dialer
	log    *zap.Logger
	retry  backoff.BackOff

	mu   sync.Mutex
	conn *websocket.Conn

	writeMu sync.Mutex
}

var _ chat.Transport = (*Client)(nil)

func NewClient(cfg Config, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Channel == "" {
		cfg.Channel = cfg.Username
	}
	if cfg.URL == "" {
		cfg.URL = DefaultChatURL
	}
	cfg.Username = strings.ToLower(cfg.Username)
	cfg.Channel = channelName(cfg.Channel)

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Second
	eb.MaxInterval = time.Minute
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    log,
		retry:  eb,
	}
}

// Channel is the joined channel, with its leading '#'.
func (c *Client) Channel() string { return c.cfg.Channel }

// Run keeps the chat session alive until ctx ends. A rejected login stops it.
func (c *Client) Run(ctx context.Context, h chat.Handler) error {
	for {
		err := c.session(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrLoginFailed) {
			return err
		}

		wait := c.retry.NextBackOff()
		if wait == backoff.Stop {
			return fmt.Errorf("twitch: giving up: %w", err)
		}
		c.log.Warn("chat disconnected", zap.Error(err), zap.Duration("retry_in", wait))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

func (c *Client) session(ctx context.Context, h chat.Handler) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("twitch: dial: %w", err)
	}
	c.setConn(conn)
	defer c.setConn(nil)
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for _, line := range []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"PASS oauth:" + strings.TrimPrefix(token, "oauth:"),
		"NICK " + c.cfg.Username,
		"JOIN " + c.cfg.Channel,
	} {
		if err := c.write(conn, line); err != nil {
			return err
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("twitch: read: %w", err)
		}
		for _, line := range strings.Split(string(data), "\r\n") {
			if line == "" {
				continue
			}
			if err := c.handleLine(conn, line, h); err != nil {
				return err
			}
		}
	}
}

func (c *Client) handleLine(conn *websocket.Conn, line string, h chat.Handler) error {
	m, err := parseIRC(line)
	if err != nil {
		c.log.Debug("dropping line", zap.String("line", line), zap.Error(err))
		return nil
	}

	switch m.Command {
	case "PING":
		return c.write(conn, "PONG :"+m.Trailing())
	case "RECONNECT":
		return errReconnect
	case "001":
		c.retry.Reset()
		c.log.Info("logged in", zap.String("user", c.cfg.Username))
	case "JOIN":
		if m.Nick() == c.cfg.Username {
			c.log.Info("joined", zap.String("channel", m.Param(0)))
		}
	case "NOTICE":
		if strings.Contains(strings.ToLower(m.Trailing()), "authentication failed") ||
			strings.Contains(strings.ToLower(m.Trailing()), "improperly formatted auth") {
			return fmt.Errorf("%w: %s", ErrLoginFailed, m.Trailing())
		}
		c.log.Info("notice", zap.String("text", m.Trailing()))
	case "PRIVMSG":
		msg, ok := c.toMessage(m)
		if ok {
			h(msg)
		}
	}
	return nil
}

func (c *Client) toMessage(m ircMessage) (chat.Message, bool) {
	login := m.Nick()
	if login == "" || login == c.cfg.Username {
		return chat.Message{}, false
	}
	uid := m.Tags["user-id"]
	name := m.Tags["display-name"]
	if name == "" {
		name = login
	}
	if uid == "" {
		c.log.Debug("message without user-id", zap.String("login", login))
		return chat.Message{}, false
	}
	return chat.Message{
		Channel:     m.Param(0),
		UserID:      uid,
		DisplayName: name,
		Text:        m.Trailing(),
	}, true
}

// Say posts text to channel, or to the joined channel when empty.
func (c *Client) Say(_ context.Context, channel, text string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if channel == "" {
		channel = c.cfg.Channel
	}
	return c.write(conn, "PRIVMSG "+channelName(channel)+" :"+sanitizeLine(text))
}

func (c *Client) write(conn *websocket.Conn, line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n")); err != nil {
		return fmt.Errorf("twitch: write: %w", err)
	}
	return nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}
