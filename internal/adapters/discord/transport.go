// Package discord is the Discord chat transport: it reads commands from one
// text channel and answers there.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
)

// session is the part of *discordgo.Session the transport uses.
type session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Transport struct {
	sess      session
	channelID string
	selfID    func() string
	log       *zap.Logger
}

var _ chat.Transport = (*Transport)(nil)

// New creates a bot session. The "Bot " prefix is required for bot tokens.
func New(token, channelID string, log *zap.Logger) (*Transport, error) {
	if token == "" {
		return nil, errors.New("discord: missing bot token")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent // commands are read from message text

	self := func() string {
		if s.State != nil && s.State.User != nil {
			return s.State.User.ID
		}
		return ""
	}
	return newTransport(s, channelID, self, log), nil
}

func newTransport(s session, channelID string, selfID func() string, log *zap.Logger) *Transport {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transport{sess: s, channelID: channelID, selfID: selfID, log: log}
}

// Run opens the gateway and feeds channel messages to h until ctx ends.
// discordgo reconnects the gateway on its own.
func (t *Transport) Run(ctx context.Context, h chat.Handler) error {
	remove := t.sess.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if msg, ok := t.toMessage(m); ok {
			h(msg)
		}
	})
	defer remove()

	if err := t.sess.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}
	t.log.Info("gateway open", zap.String("channel", t.channelID))

	<-ctx.Done()
	if err := t.sess.Close(); err != nil {
		t.log.Warn("close gateway", zap.Error(err))
	}
	return nil
}
