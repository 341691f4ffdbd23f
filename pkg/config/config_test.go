package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTwitchEnv(t *testing.T) {
	t.Setenv("ADMIN_USER_ID", "1234")
	t.Setenv("TWITCH_USERNAME", "queuebot")
	t.Setenv("TWITCH_CLIENT_ID", "cid")
	t.Setenv("TWITCH_CLIENT_SECRET", "shh")
	t.Setenv("LCU_LOCKFILE", "/games/League of Legends/lockfile")
}

func TestParse_Defaults(t *testing.T) {
	setTwitchEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, PlatformTwitch, cfg.Platform)
	assert.Equal(t, "!", cfg.Prefix)
	assert.Equal(t, 4, cfg.InviteSlots)
	assert.Equal(t, 5*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, "127.0.0.1:8089", cfg.HTTPAddr)
	assert.Equal(t, "static/token.json", cfg.Twitch.TokenFile)
	assert.Equal(t, time.Second, cfg.LCU.ReconnectDelay)
	assert.Equal(t, 2*time.Second, cfg.LCU.LockfilePoll)
	assert.False(t, cfg.LCU.Explicit())
}

func TestParse_Discord(t *testing.T) {
	t.Setenv("CHAT_PLATFORM", " Discord ")
	t.Setenv("ADMIN_USER_ID", "42")
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("DISCORD_CHANNEL_ID", "999")
	t.Setenv("LCU_PORT", "50123")
	t.Setenv("LCU_PASSWORD", "pw")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, PlatformDiscord, cfg.Platform)
	assert.True(t, cfg.LCU.Explicit())
	assert.Equal(t, 50123, cfg.LCU.Port)

	red := cfg.Redacted()
	assert.Contains(t, red, "token=[set]")
	assert.Contains(t, red, "lcuPassword=[set]")
	assert.NotContains(t, red, "tok ")
	assert.NotContains(t, red, "pw")
}

func TestParse_MissingValues(t *testing.T) {
	t.Setenv("CHAT_PLATFORM", "twitch")

	_, err := Parse()
	require.Error(t, err)
	for _, want := range []string{"ADMIN_USER_ID", "TWITCH_USERNAME", "TWITCH_CLIENT_ID", "TWITCH_CLIENT_SECRET", "LCU_LOCKFILE"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestParse_BadValues(t *testing.T) {
	setTwitchEnv(t)
	t.Setenv("INVITE_SLOTS", "nope")
	_, err := Parse()
	assert.ErrorContains(t, err, "parse env:")

	t.Setenv("INVITE_SLOTS", "0")
	t.Setenv("CHAT_PLATFORM", "irc")
	_, err = Parse()
	assert.ErrorContains(t, err, "INVITE_SLOTS")
	assert.ErrorContains(t, err, "CHAT_PLATFORM")
}

func TestRedacted_HidesSecrets(t *testing.T) {
	setTwitchEnv(t)
	cfg, err := Parse()
	require.NoError(t, err)
	red := cfg.Redacted()
	assert.Contains(t, red, "clientSecret=[set]")
	assert.NotContains(t, red, "shh")
}
