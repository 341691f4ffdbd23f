package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/adapters/lcu"
	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
	"github.com/jose-valero/lcu-queue-bot/internal/queue"
)

// InviteGateway resolves in-game names and sends lobby invitations.
type InviteGateway interface {
	SummonerByName(ctx context.Context, name string) (lcu.Summoner, error)
	Invite(ctx context.Context, summonerIDs []int64) ([]lcu.Invitation, error)
}

type Options struct {
	AdminID        string
	Prefix         string
	InviteSlots    int
	ResolveTimeout time.Duration
}

func (o *Options) defaults() {
	if o.Prefix == "" {
		o.Prefix = "!"
	}
	if o.InviteSlots <= 0 {
		o.InviteSlots = 4
	}
	if o.ResolveTimeout <= 0 {
		o.ResolveTimeout = 5 * time.Second
	}
}

var ErrStopped = errors.New("app: bot stopped")

// Bot owns the waitlist. Chat commands and game events arrive on one inbox
// and are applied in order by a single loop; network calls run on their own
// goroutines and report back through chat replies only.
type Bot struct {
	opts Options
	list *queue.Waitlist
	gw   InviteGateway
	out  chat.Sender
	log  *zap.Logger

	inbox   chan Msg
	replies chan reply
	stopped chan struct{}
	once    sync.Once

	// ctx is set by Run before the loop starts
	ctx  context.Context
	work sync.WaitGroup
}

type reply struct {
	channel string
	text    string
}

func NewBot(opts Options, gw InviteGateway, out chat.Sender, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	opts.defaults()
	return &Bot{
		opts:    opts,
		list:    queue.NewWaitlist(),
		gw:      gw,
		out:     out,
		log:     log,
		inbox:   make(chan Msg, 64),
		replies: make(chan reply, 64),
		stopped: make(chan struct{}),
		ctx:     context.Background(),
	}
}

// Inbox exposes the loop input, mostly for tests.
func (b *Bot) Inbox() chan<- Msg { return b.inbox }

// HandleChat is the chat.Handler handed to the transport.
func (b *Bot) HandleChat(m chat.Message) {
	b.post(ChatReceived{Message: m})
}

func (b *Bot) post(m Msg) {
	select {
	case b.inbox <- m:
	case <-b.stopped:
	}
}

// Queue returns a snapshot taken on the loop.
func (b *Bot) Queue(ctx context.Context) ([]queue.Participant, error) {
	ch := make(chan []queue.Participant, 1)
	select {
	case b.inbox <- GetQueue{Reply: ch}:
	case <-b.stopped:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case q := <-ch:
		return q, nil
	case <-b.stopped:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run processes the inbox until ctx ends, then waits for in-flight
// invitations and replies.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	senderDone := make(chan struct{})
	go func() {
		defer close(senderDone)
		b.sendReplies()
	}()

	b.log.Info("bot loop started", zap.String("prefix", b.opts.Prefix), zap.Int("slots", b.opts.InviteSlots))
	defer func() {
		b.once.Do(func() { close(b.stopped) })
		b.work.Wait()
		close(b.replies)
		<-senderDone
		b.log.Info("bot loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-b.inbox:
			b.dispatch(m)
		}
	}
}

func (b *Bot) dispatch(m Msg) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("inbox message panicked", zap.Any("panic", r))
		}
	}()

	switch msg := m.(type) {
	case ChatReceived:
		b.handleChat(msg.Message)
	case LobbyCreated:
		b.onLobbyCreated()
	case LobbyDeleted:
		b.log.Info("lobby deleted")
	case PhaseChanged:
		b.onPhase(msg)
	case GetQueue:
		msg.Reply <- b.list.Snapshot()
	}
}

// async runs fn off the loop; Run waits for it on shutdown.
func (b *Bot) async(fn func(ctx context.Context)) {
	ctx := b.ctx
	b.work.Add(1)
	go func() {
		defer b.work.Done()
		fn(ctx)
	}()
}

// say queues a best-effort chat reply. A full buffer drops the reply.
func (b *Bot) say(channel, text string) {
	select {
	case b.replies <- reply{channel: channel, text: text}:
	default:
		b.log.Warn("reply dropped", zap.String("channel", channel), zap.String("text", text))
	}
}

func (b *Bot) sendReplies() {
	for r := range b.replies {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := b.out.Say(ctx, r.channel, r.text); err != nil {
			b.log.Warn("reply failed", zap.String("channel", r.channel), zap.Error(err))
		}
		cancel()
	}
}

func (b *Bot) isAdmin(m chat.Message) bool {
	return b.opts.AdminID != "" && m.UserID == b.opts.AdminID
}
