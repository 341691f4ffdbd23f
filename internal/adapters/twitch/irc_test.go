package twitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIRC_Privmsg(t *testing.T) {
	line := `@badge-info=;display-name=Hide\sOn;user-id=12345;mod=0 :hideon!hideon@hideon.tmi.twitch.tv PRIVMSG #streamer :!join Hide on bush` + "\r\n"
	m, err := parseIRC(line)
	require.NoError(t, err)

	assert.Equal(t, "PRIVMSG", m.Command)
	assert.Equal(t, "hideon", m.Nick())
	assert.Equal(t, "Hide On", m.Tags["display-name"])
	assert.Equal(t, "12345", m.Tags["user-id"])
	assert.Equal(t, "", m.Tags["badge-info"])
	assert.Equal(t, "#streamer", m.Param(0))
	assert.Equal(t, "!join Hide on bush", m.Trailing())
}

func TestParseIRC_Variants(t *testing.T) {
	m, err := parseIRC("PING :tmi.twitch.tv")
	require.NoError(t, err)
	assert.Equal(t, "PING", m.Command)
	assert.Equal(t, "tmi.twitch.tv", m.Trailing())
	assert.Empty(t, m.Prefix)

	m, err = parseIRC(":tmi.twitch.tv 001 bot :Welcome, GLHF!")
	require.NoError(t, err)
	assert.Equal(t, "001", m.Command)
	assert.Equal(t, []string{"bot", "Welcome, GLHF!"}, m.Params)

	m, err = parseIRC(":tmi.twitch.tv RECONNECT")
	require.NoError(t, err)
	assert.Equal(t, "RECONNECT", m.Command)
	assert.Empty(t, m.Trailing())
	assert.Empty(t, m.Param(3))

	_, err = parseIRC("  \r\n")
	assert.ErrorIs(t, err, errEmptyLine)

	_, err = parseIRC("@a=b ")
	assert.Error(t, err)
}

func TestUnescapeTag(t *testing.T) {
	assert.Equal(t, `a;b c\d`, unescapeTag(`a\:b\sc\\d`))
	assert.Equal(t, "plain", unescapeTag("plain"))
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "#streamer", channelName("Streamer"))
	assert.Equal(t, "#streamer", channelName("#streamer"))
	assert.Equal(t, "", channelName(" "))
	assert.Equal(t, "a b", sanitizeLine("a\r\nb"))
}
