package lcu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/events"
)

const (
	handshakeTimeout      = 3 * time.Second
	writeTimeout          = 5 * time.Second
	defaultReconnectDelay = time.Second
)

// State is the lifecycle of the underlying connection.
type State int32

const (
	Disconnected State = iota
	Connecting
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

var (
	ErrNotConnected = errors.New("lcu: socket not connected")
	ErrClosed       = errors.New("lcu: socket closed")
)

// Socket is the push-event client. It holds at most one connection,
// keeps topic handlers across reconnects, and re-sends subscribe frames
// every time a connection opens.
type Socket struct {
	creds  Credentials
	url    string
	dialer *websocket.Dialer
	log    *zap.Logger
	topics *events.Bus[EventPayload]
	retry  backoff.BackOff

	mu        sync.Mutex
	conn      *websocket.Conn
	state     State
	lastClose int
	closing   bool
	onOpen    []func()

	writeMu sync.Mutex
	drops   chan drop
}

type drop struct {
	code      int
	reconnect bool
}

type SocketOption func(*Socket)

// WithReconnectDelay sets the fixed wait before reconnecting.
func WithReconnectDelay(d time.Duration) SocketOption {
	return func(s *Socket) { s.retry = backoff.NewConstantBackOff(d) }
}

func WithDialer(d *websocket.Dialer) SocketOption {
	return func(s *Socket) { s.dialer = d }
}

func NewSocket(creds Credentials, log *zap.Logger, opts ...SocketOption) *Socket {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Socket{
		creds: creds,
		url:   creds.SocketURL(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			// the client serves a self-signed certificate on loopback
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		},
		log:    log,
		topics: events.NewBus[EventPayload](),
		retry:  backoff.NewConstantBackOff(defaultReconnectDelay),
		drops:  make(chan drop, 1),
	}
	s.topics.OnPanic = func(topic string, err error) {
		s.log.Error("topic handler failed", zap.String("topic", topic), zap.Error(err))
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OnOpen registers fn to run after every successful connect, reconnects included.
func (s *Socket) OnOpen(fn func()) {
	s.mu.Lock()
	s.onOpen = append(s.onOpen, fn)
	s.mu.Unlock()
}

func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Topics lists topics that currently have handlers.
func (s *Socket) Topics() []string { return s.topics.Topics() }

// Run keeps the socket connected until ctx ends or the connection is closed
// deliberately (by Close or by a normal close frame from the client).
// Abnormal drops and failed dials are retried after the reconnect delay.
func (s *Socket) Run(ctx context.Context) error {
	defer s.Close()
	for {
		err := s.Connect(ctx)
		switch {
		case errors.Is(err, ErrClosed):
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("connect failed", zap.String("url", s.url), zap.Error(err))
		default:
			select {
			case <-ctx.Done():
				return nil
			case d := <-s.drops:
				if !d.reconnect {
					s.log.Info("socket closed, not reconnecting", zap.Int("code", d.code))
					return nil
				}
			}
		}

		wait := s.retry.NextBackOff()
		if wait == backoff.Stop {
			return errors.New("lcu: reconnect attempts exhausted")
		}
		s.log.Info("reconnecting", zap.Duration("in", wait))
		select {
		case <-ctx.Done():
			return nil
		case d := <-s.drops:
			if !d.reconnect {
				return nil
			}
		case <-time.After(wait):
		}
	}
}

// Connect dials the client. If a connection is already open it is closed
// first; that close never triggers a reconnect.
func (s *Socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if prev := s.conn; prev != nil {
		s.log.Info("closing current connection to reconnect")
		s.conn = nil
		_ = prev.Close()
	}
	s.closing = false
	s.state = Connecting
	s.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()
	conn, resp, err := s.dialer.DialContext(dialCtx, s.url, s.creds.Header())
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		s.setState(Disconnected)
		return fmt.Errorf("lcu: dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	s.conn = conn
	s.state = Open
	callbacks := append([]func(){}, s.onOpen...)
	s.mu.Unlock()

	s.retry.Reset()
	s.log.Info("websocket opened", zap.String("url", s.url))

	go s.readLoop(conn)
	s.replaySubscriptions()
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// Close shuts the connection down without reconnecting.
func (s *Socket) Close() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.closing = true
	if s.state != Disconnected {
		s.state = Closed
	}
	s.lastClose = websocket.CloseNormalClosure
	s.mu.Unlock()

	if conn == nil {
		s.signal(drop{code: websocket.CloseNormalClosure})
		return
	}
	s.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	_ = conn.Close()
	s.signal(drop{code: websocket.CloseNormalClosure})
}

// Subscribe registers fn for topic and asks the client to start sending it.
// Handlers survive reconnects. When the socket is down the frame is sent on
// the next open.
func (s *Socket) Subscribe(topic string, fn func(EventPayload)) error {
	s.topics.Subscribe(topic, fn)
	if s.State() != Open {
		return nil
	}
	return s.SendFrame(Subscribe, topic)
}

// Unsubscribe detaches every handler of topic and tells the client.
func (s *Socket) Unsubscribe(topic string) error {
	n := s.topics.Unsubscribe(topic)
	s.log.Debug("unsubscribed", zap.String("topic", topic), zap.Int("handlers", n))
	if s.State() != Open {
		return nil
	}
	return s.SendFrame(Unsubscribe, topic)
}

// SendFrame writes `[t, msg]`. Failures are logged and returned.
func (s *Socket) SendFrame(t MessageType, msg string) error {
	b, err := EncodeFrame(t, msg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		s.log.Warn("send skipped", zap.Stringer("type", t), zap.String("message", msg), zap.Error(ErrNotConnected))
		return ErrNotConnected
	}

	s.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err = conn.WriteMessage(websocket.TextMessage, b)
	s.writeMu.Unlock()
	if err != nil {
		s.log.Warn("send failed", zap.Stringer("type", t), zap.String("message", msg), zap.Error(err))
		return fmt.Errorf("lcu: send %s: %w", t, err)
	}
	s.log.Debug("sent", zap.Stringer("type", t), zap.String("message", msg))
	return nil
}

func (s *Socket) replaySubscriptions() {
	for _, topic := range s.topics.Topics() {
		_ = s.SendFrame(Subscribe, topic)
	}
}

func (s *Socket) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.dropped(conn, err)
			return
		}
		s.dispatch(data)
	}
}

func (s *Socket) dispatch(data []byte) {
	f, err := DecodeFrame(data)
	if errors.Is(err, ErrEmptyFrame) {
		return
	}
	if err != nil {
		s.log.Debug("dropping frame", zap.Error(err))
		return
	}

	if f.Type != Event {
		s.log.Debug("message", zap.Stringer("type", f.Type), zap.String("topic", f.Topic), zap.ByteString("payload", f.Payload))
		return
	}
	var p EventPayload
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		s.log.Debug("dropping event", zap.String("topic", f.Topic), zap.Error(err))
		return
	}
	s.log.Debug("event", zap.String("topic", f.Topic), zap.String("eventType", string(p.EventType)), zap.String("uri", p.URI))
	s.topics.Publish(f.Topic, p)
}

// dropped handles the end of conn's read loop. Connections that were already
// replaced or closed on purpose are ignored here.
func (s *Socket) dropped(conn *websocket.Conn, err error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	code := closeCode(err)
	s.conn = nil
	s.state = Closed
	s.lastClose = code
	s.mu.Unlock()

	_ = conn.Close()
	s.log.Info("websocket closed", zap.Int("code", code), zap.Error(err))
	s.signal(drop{code: code, reconnect: shouldReconnect(code)})
}

func (s *Socket) signal(d drop) {
	select {
	case s.drops <- d:
	default:
	}
}

func (s *Socket) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// LastCloseCode is the code of the most recent close, 0 before any.
func (s *Socket) LastCloseCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastClose
}

func closeCode(err error) int {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	// reset or EOF without a close frame
	return websocket.CloseAbnormalClosure
}

func shouldReconnect(code int) bool {
	switch code {
	case websocket.CloseAbnormalClosure, websocket.ClosePolicyViolation:
		return true
	}
	return false
}
