package queue

import "time"

// Participant is one viewer waiting for a seat in the lobby.
type Participant struct {
	ID          string    // platform user id, stable across renames
	DisplayName string    // chat display name, used in replies
	GameHandle  string    // in-game name the viewer registered with
	JoinedAt    time.Time // when the viewer first joined
}

// Update describes an in-place game handle change.
type Update struct {
	Previous Participant
	Updated  Participant
	Index    int // 0-based position, unchanged by the update
}
