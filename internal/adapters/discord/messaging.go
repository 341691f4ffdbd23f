package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
)

// discord rejects contents longer than this
const maxContent = 2000

// Say posts a plain message to channel, or to the configured channel when empty.
func (t *Transport) Say(ctx context.Context, channel, text string) error {
	if channel == "" {
		channel = t.channelID
	}
	if len([]rune(text)) > maxContent {
		text = string([]rune(text)[:maxContent])
	}
	if _, err := t.sess.ChannelMessageSend(channel, text, discordgo.WithContext(ctx)); err != nil {
		t.log.Warn("send failed", zap.String("channel", channel), zap.Error(err))
		return fmt.Errorf("discord: send: %w", err)
	}
	return nil
}

// toMessage maps a gateway message to a chat message. Bots, our own
// messages and other channels are dropped.
func (t *Transport) toMessage(m *discordgo.MessageCreate) (chat.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return chat.Message{}, false
	}
	if m.Author.Bot || m.Author.ID == t.selfID() {
		return chat.Message{}, false
	}
	if t.channelID != "" && m.ChannelID != t.channelID {
		return chat.Message{}, false
	}
	return chat.Message{
		Channel:     m.ChannelID,
		UserID:      m.Author.ID,
		DisplayName: displayName(m),
		Text:        m.Content,
	}, true
}

// displayName prefers the guild nickname, then the global name.
func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
