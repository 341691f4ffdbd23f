package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	PlatformTwitch  = "twitch"
	PlatformDiscord = "discord"
)

type Config struct {
	Platform       string        `env:"CHAT_PLATFORM" envDefault:"twitch"`
	Prefix         string        `env:"CHAT_PREFIX" envDefault:"!"`
	AdminID        string        `env:"ADMIN_USER_ID"`
	InviteSlots    int           `env:"INVITE_SLOTS" envDefault:"4"`
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"5s"`
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:8089"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"console"`

	Twitch  Twitch  `envPrefix:"TWITCH_"`
	Discord Discord `envPrefix:"DISCORD_"`
	LCU     LCU     `envPrefix:"LCU_"`
}

type Twitch struct {
	Username     string `env:"USERNAME"`
	Channel      string `env:"CHANNEL"` // defaults to Username
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	TokenFile    string `env:"TOKEN_FILE" envDefault:"static/token.json"`
}

type Discord struct {
	Token     string `env:"BOT_TOKEN"`
	ChannelID string `env:"CHANNEL_ID"`
}

// LCU points at the local game client. An explicit port and password skip
// lockfile discovery.
type LCU struct {
	Lockfile       string        `env:"LOCKFILE"`
	Port           int           `env:"PORT"`
	Password       string        `env:"PASSWORD"`
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY" envDefault:"1s"`
	LockfilePoll   time.Duration `env:"LOCKFILE_POLL" envDefault:"2s"`
}

// Explicit reports whether credentials were given directly.
func (l LCU) Explicit() bool { return l.Port > 0 && l.Password != "" }

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	// load .env from local development.
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.AdminID == "" {
		errs = append(errs, errors.New("missing ADMIN_USER_ID"))
	}
	if c.Prefix == "" {
		errs = append(errs, errors.New("CHAT_PREFIX must not be empty"))
	}
	if c.InviteSlots <= 0 {
		errs = append(errs, fmt.Errorf("INVITE_SLOTS must be positive, got %d", c.InviteSlots))
	}
	if c.ResolveTimeout <= 0 {
		errs = append(errs, errors.New("RESOLVE_TIMEOUT must be positive"))
	}

	switch c.Platform {
	case PlatformTwitch:
		if c.Twitch.Username == "" {
			errs = append(errs, errors.New("missing TWITCH_USERNAME"))
		}
		if c.Twitch.ClientID == "" {
			errs = append(errs, errors.New("missing TWITCH_CLIENT_ID"))
		}
		if c.Twitch.ClientSecret == "" {
			errs = append(errs, errors.New("missing TWITCH_CLIENT_SECRET"))
		}
	case PlatformDiscord:
		if c.Discord.Token == "" {
			errs = append(errs, errors.New("missing DISCORD_BOT_TOKEN"))
		}
		if c.Discord.ChannelID == "" {
			errs = append(errs, errors.New("missing DISCORD_CHANNEL_ID"))
		}
	default:
		errs = append(errs, fmt.Errorf("CHAT_PLATFORM must be %q or %q, got %q", PlatformTwitch, PlatformDiscord, c.Platform))
	}

	if !c.LCU.Explicit() && c.LCU.Lockfile == "" {
		errs = append(errs, errors.New("set LCU_LOCKFILE, or both LCU_PORT and LCU_PASSWORD"))
	}
	return errors.Join(errs...)
}

func set(v string) string {
	if v == "" {
		return "[empty]"
	}
	return "[set]"
}

// Redacted is a one-line summary without secrets.
func (c *Config) Redacted() string {
	var b strings.Builder
	fmt.Fprintf(&b, "platform=%s prefix=%q admin=%s slots=%d resolveTimeout=%s http=%q",
		c.Platform, c.Prefix, c.AdminID, c.InviteSlots, c.ResolveTimeout, c.HTTPAddr)
	switch c.Platform {
	case PlatformTwitch:
		fmt.Fprintf(&b, " twitchUser=%s channel=%s clientSecret=%s tokenFile=%s",
			c.Twitch.Username, c.Twitch.Channel, set(c.Twitch.ClientSecret), c.Twitch.TokenFile)
	case PlatformDiscord:
		fmt.Fprintf(&b, " discordChannel=%s token=%s", c.Discord.ChannelID, set(c.Discord.Token))
	}
	if c.LCU.Explicit() {
		fmt.Fprintf(&b, " lcuPort=%d lcuPassword=%s", c.LCU.Port, set(c.LCU.Password))
	} else {
		fmt.Fprintf(&b, " lockfile=%s", c.LCU.Lockfile)
	}
	return b.String()
}
