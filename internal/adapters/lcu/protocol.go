// Package lcu talks to the local game client: the push-event socket
// (WAMP 1.0 framing over a TLS websocket) and the REST control API.
package lcu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/match"
)

// MessageType is the first element of every frame.
type MessageType int

const (
	Welcome MessageType = iota
	Prefix
	Call
	CallResult
	CallError
	Subscribe
	Unsubscribe
	Publish
	Event
)

var messageTypeNames = [...]string{
	"Welcome", "Prefix", "Call", "CallResult", "CallError",
	"Subscribe", "Unsubscribe", "Publish", "Event",
}

func (t MessageType) String() string {
	if t >= 0 && int(t) < len(messageTypeNames) {
		return messageTypeNames[t]
	}
	return fmt.Sprintf("MessageType(%d)", int(t))
}

// Topics the bot listens to.
const (
	TopicLobby   = "OnJsonApiEvent_lol-lobby_v2_lobby"
	TopicSession = "OnJsonApiEvent_lol-gameflow_v1_session"
)

// Resource URIs carried in event payloads and used by the REST client.
const (
	URILobby       = "/lol-lobby/v2/lobby"
	URIInvitations = "/lol-lobby/v2/lobby/invitations"
	URISession     = "/lol-gameflow/v1/session"
	URISummoners   = "/lol-summoner/v1/summoners"
	URIAppName     = "/riotclient/app-name"
)

type EventType string

const (
	EventCreate EventType = "Create"
	EventUpdate EventType = "Update"
	EventDelete EventType = "Delete"
)

// EventPayload is the third element of an Event frame.
type EventPayload struct {
	Data      json.RawMessage `json:"data"`
	EventType EventType       `json:"eventType"`
	URI       string          `json:"uri"`
}

// HasData reports whether the payload carries a non-null resource body.
func (p EventPayload) HasData() bool {
	d := bytes.TrimSpace(p.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Frame is a decoded inbound message.
type Frame struct {
	Type    MessageType
	Topic   string
	Payload json.RawMessage
}

var ErrEmptyFrame = errors.New("lcu: empty frame")

// DecodeFrame parses `[type, topic, payload]`. Frames with fewer elements
// are accepted; missing parts stay zero.
func DecodeFrame(data []byte) (Frame, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Frame{}, ErrEmptyFrame
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return Frame{}, fmt.Errorf("lcu: decode frame: %w", err)
	}
	if len(parts) == 0 {
		return Frame{}, ErrEmptyFrame
	}

	var f Frame
	if err := json.Unmarshal(parts[0], &f.Type); err != nil {
		return Frame{}, fmt.Errorf("lcu: decode frame type: %w", err)
	}
	if len(parts) > 1 {
		// Welcome carries a session id here; anything non-string is kept raw
		if err := json.Unmarshal(parts[1], &f.Topic); err != nil {
			f.Topic = string(parts[1])
		}
	}
	if len(parts) > 2 {
		f.Payload = parts[2]
	}
	return f, nil
}

// EncodeFrame builds the outbound `[type, message]` control frame.
func EncodeFrame(t MessageType, msg string) ([]byte, error) {
	return json.Marshal([]any{t, msg})
}

// GamePlayer is one roster slot in the gameflow session.
type GamePlayer struct {
	SummonerID           int64  `json:"summonerId"`
	SummonerInternalName string `json:"summonerInternalName"`
	SummonerName         string `json:"summonerName"`
	Puuid                string `json:"puuid"`
	ChampionID           int    `json:"championId"`
	TeamOwner            bool   `json:"teamOwner"`
}

// Name is the internal name, or the display name when the client omits it.
func (p GamePlayer) Name() string {
	if n := strings.TrimSpace(p.SummonerInternalName); n != "" {
		return n
	}
	return strings.TrimSpace(p.SummonerName)
}

// GameflowSession is the subset of /lol-gameflow/v1/session the bot reads.
type GameflowSession struct {
	Phase    match.Phase `json:"phase"`
	GameData struct {
		GameID  int64        `json:"gameId"`
		TeamOne []GamePlayer `json:"teamOne"`
		TeamTwo []GamePlayer `json:"teamTwo"`
	} `json:"gameData"`
}

// Roster collects the non-empty player names of both teams.
func (s GameflowSession) Roster() match.Roster {
	var r match.Roster
	for _, p := range s.GameData.TeamOne {
		if n := p.Name(); n != "" {
			r.TeamOne = append(r.TeamOne, n)
		}
	}
	for _, p := range s.GameData.TeamTwo {
		if n := p.Name(); n != "" {
			r.TeamTwo = append(r.TeamTwo, n)
		}
	}
	return r
}

// DecodeSession reads a session event payload. ok is false for null data.
func DecodeSession(p EventPayload) (s GameflowSession, ok bool, err error) {
	if !p.HasData() {
		return GameflowSession{}, false, nil
	}
	if err := json.Unmarshal(p.Data, &s); err != nil {
		return GameflowSession{}, false, fmt.Errorf("lcu: decode session: %w", err)
	}
	return s, true, nil
}
