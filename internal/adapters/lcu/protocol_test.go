package lcu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/match"
)

func TestDecodeFrame(t *testing.T) {
	f, err := DecodeFrame([]byte(lobbyCreate))
	require.NoError(t, err)
	assert.Equal(t, Event, f.Type)
	assert.Equal(t, TopicLobby, f.Topic)

	var p EventPayload
	require.NoError(t, json.Unmarshal(f.Payload, &p))
	assert.Equal(t, EventCreate, p.EventType)

	f, err = DecodeFrame([]byte(`[0,"abc",1,"RiotClient"]`))
	require.NoError(t, err)
	assert.Equal(t, Welcome, f.Type)
	assert.Equal(t, "abc", f.Topic)

	f, err = DecodeFrame([]byte(`[4, 17, "boom"]`))
	require.NoError(t, err)
	assert.Equal(t, CallError, f.Type)
	assert.Equal(t, "17", f.Topic)
}

func TestDecodeFrameRejects(t *testing.T) {
	for _, raw := range []string{"", "  \n", "[]"} {
		_, err := DecodeFrame([]byte(raw))
		assert.ErrorIs(t, err, ErrEmptyFrame, "%q", raw)
	}
	for _, raw := range []string{"{", `{"a":1}`, `["x","y"]`} {
		_, err := DecodeFrame([]byte(raw))
		assert.Error(t, err, "%q", raw)
		assert.NotErrorIs(t, err, ErrEmptyFrame)
	}
}

func TestEncodeFrame(t *testing.T) {
	b, err := EncodeFrame(Subscribe, TopicSession)
	require.NoError(t, err)
	assert.JSONEq(t, `[5,"OnJsonApiEvent_lol-gameflow_v1_session"]`, string(b))

	b, err = EncodeFrame(Unsubscribe, TopicLobby)
	require.NoError(t, err)
	assert.JSONEq(t, `[6,"OnJsonApiEvent_lol-lobby_v2_lobby"]`, string(b))
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "Event", Event.String())
	assert.Equal(t, "Welcome", Welcome.String())
	assert.Equal(t, "MessageType(42)", MessageType(42).String())
}

func TestDecodeSession(t *testing.T) {
	p := EventPayload{Data: json.RawMessage(`{
		"phase": "GameStart",
		"gameData": {
			"gameId": 7,
			"teamOne": [{"summonerInternalName": " Faker "}, {"summonerName": "Keria"}],
			"teamTwo": [{"summonerInternalName": "bengi"}, {}]
		}
	}`)}
	s, ok, err := DecodeSession(p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, match.PhaseGameStart, s.Phase)
	assert.Equal(t, []string{"Faker", "Keria"}, s.Roster().TeamOne)
	assert.Equal(t, []string{"bengi"}, s.Roster().TeamTwo)
	assert.Equal(t, []string{"Faker", "Keria", "bengi"}, s.Roster().Names())

	_, ok, err = DecodeSession(EventPayload{Data: json.RawMessage(`null`)})
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = DecodeSession(EventPayload{Data: json.RawMessage(`[1]`)})
	assert.Error(t, err)
}
