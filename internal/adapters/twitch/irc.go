package twitch

import (
	"errors"
	"strings"
)

var errEmptyLine = errors.New("twitch: empty irc line")

// ircMessage is one parsed IRC line with IRCv3 tags.
type ircMessage struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

// parseIRC parses `[@tags] [:prefix] COMMAND [params] [:trailing]`.
func parseIRC(line string) (ircMessage, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return ircMessage{}, errEmptyLine
	}
	var m ircMessage

	if strings.HasPrefix(line, "@") {
		raw, rest, _ := strings.Cut(line[1:], " ")
		m.Tags = parseTags(raw)
		line = strings.TrimLeft(rest, " ")
	}
	if strings.HasPrefix(line, ":") {
		m.Prefix, line, _ = strings.Cut(line[1:], " ")
		line = strings.TrimLeft(line, " ")
	}

	m.Command, line, _ = strings.Cut(line, " ")
	if m.Command == "" {
		return ircMessage{}, errors.New("twitch: irc line without command")
	}
	for line != "" {
		if strings.HasPrefix(line, ":") {
			m.Params = append(m.Params, line[1:])
			break
		}
		var p string
		p, line, _ = strings.Cut(line, " ")
		if p != "" {
			m.Params = append(m.Params, p)
		}
	}
	return m, nil
}

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, kv := range strings.Split(raw, ";") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		tags[k] = unescapeTag(v)
	}
	return tags
}

var tagUnescaper = strings.NewReplacer(`\s`, " ", `\:`, ";", `\\`, `\`, `\r`, "\r", `\n`, "\n")

func unescapeTag(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	return tagUnescaper.Replace(v)
}

// Nick is the nickname part of the prefix.
func (m ircMessage) Nick() string {
	nick, _, _ := strings.Cut(m.Prefix, "!")
	return nick
}

// Trailing is the last parameter, usually the message body.
func (m ircMessage) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

func (m ircMessage) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// sanitizeLine keeps a reply on one IRC line.
func sanitizeLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func channelName(ch string) string {
	ch = strings.ToLower(strings.TrimSpace(ch))
	if ch == "" || strings.HasPrefix(ch, "#") {
		return ch
	}
	return "#" + ch
}
