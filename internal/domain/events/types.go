// Package events - types.go
package events

import "github.com/jose-valero/lcu-queue-bot/internal/domain/match"

// LobbyCreated is emitted when the game client opens a new lobby.
type LobbyCreated struct{}

// LobbyDeleted is emitted when the lobby is closed.
type LobbyDeleted struct{}

// PhaseChanged is emitted for every gameflow session update.
// Roster is only filled for phases that carry team data.
type PhaseChanged struct {
	Phase  match.Phase
	Roster match.Roster
}
