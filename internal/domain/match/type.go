package match

// Phase is the game client's gameflow phase. It is owned by the client;
// the bot only reacts to transitions.
type Phase string

const (
	PhaseNone                  Phase = "None"
	PhaseLobby                 Phase = "Lobby"
	PhaseMatchmaking           Phase = "Matchmaking"
	PhaseCheckedIntoTournament Phase = "CheckedIntoTournament"
	PhaseReadyCheck            Phase = "ReadyCheck"
	PhaseChampSelect           Phase = "ChampSelect"
	PhaseGameStart             Phase = "GameStart"
	PhaseFailedToLaunch        Phase = "FailedToLaunch"
	PhaseInProgress            Phase = "InProgress"
	PhaseReconnect             Phase = "Reconnect"
	PhaseWaitingForStats       Phase = "WaitingForStats"
	PhasePreEndOfGame          Phase = "PreEndOfGame"
	PhaseEndOfGame             Phase = "EndOfGame"
	PhaseTerminatedInError     Phase = "TerminatedInError"
)

// Roster holds the in-game names of both teams.
type Roster struct {
	TeamOne []string
	TeamTwo []string
}

// Names returns both teams in one slice.
func (r Roster) Names() []string {
	out := make([]string, 0, len(r.TeamOne)+len(r.TeamTwo))
	out = append(out, r.TeamOne...)
	return append(out, r.TeamTwo...)
}
