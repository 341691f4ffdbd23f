// internal/app/subscribers.go
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/adapters/lcu"
)

// EventSource is the game client's push socket.
type EventSource interface {
	Subscribe(topic string, fn func(lcu.EventPayload)) error
}

// Subscribe wires the lobby and gameflow topics into the inbox. Handlers run
// on the socket's read goroutine, so they only translate and post.
func (b *Bot) Subscribe(src EventSource) error {
	if err := src.Subscribe(lcu.TopicLobby, b.onLobbyPayload); err != nil {
		return fmt.Errorf("subscribe %s: %w", lcu.TopicLobby, err)
	}
	if err := src.Subscribe(lcu.TopicSession, b.onSessionPayload); err != nil {
		return fmt.Errorf("subscribe %s: %w", lcu.TopicSession, err)
	}
	return nil
}

func (b *Bot) onLobbyPayload(p lcu.EventPayload) {
	if p.URI != lcu.URILobby {
		return
	}
	switch p.EventType {
	case lcu.EventCreate:
		b.post(LobbyCreated{})
	case lcu.EventDelete:
		b.post(LobbyDeleted{})
	}
}

func (b *Bot) onSessionPayload(p lcu.EventPayload) {
	s, ok, err := lcu.DecodeSession(p)
	if err != nil {
		b.log.Warn("bad session payload", zap.Error(err))
		return
	}
	if !ok || s.Phase == "" {
		return
	}
	b.post(PhaseChanged{Phase: s.Phase, Roster: s.Roster()})
}
