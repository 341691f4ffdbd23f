package app

import (
	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
	"github.com/jose-valero/lcu-queue-bot/internal/domain/events"
	"github.com/jose-valero/lcu-queue-bot/internal/queue"
)

// Msg is anything the bot loop accepts.
type Msg interface{ isBotMsg() }

type ChatReceived struct {
	Message chat.Message
}

func (ChatReceived) isBotMsg() {}

type LobbyCreated events.LobbyCreated

func (LobbyCreated) isBotMsg() {}

type LobbyDeleted events.LobbyDeleted

func (LobbyDeleted) isBotMsg() {}

type PhaseChanged events.PhaseChanged

func (PhaseChanged) isBotMsg() {}

// GetQueue asks the loop for a copy of the waitlist.
type GetQueue struct {
	Reply chan []queue.Participant
}

func (GetQueue) isBotMsg() {}
