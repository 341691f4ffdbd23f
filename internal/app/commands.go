// internal/app/commands.go
package app

import (
	"strings"
)

type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdPing
	CmdJoin
	CmdLeave
	CmdQueueInfo
	CmdKick
	CmdReorder
	CmdInvite
)

func (k CommandKind) String() string {
	switch k {
	case CmdPing:
		return "ping"
	case CmdJoin:
		return "join"
	case CmdLeave:
		return "leave"
	case CmdQueueInfo:
		return "queue-info"
	case CmdKick:
		return "kick"
	case CmdReorder:
		return "reorder"
	case CmdInvite:
		return "invite"
	}
	return "unknown"
}

// command words, English first, then the Korean ones the channel grew up with
var commandWords = map[string]CommandKind{
	"ping":       CmdPing,
	"핑":          CmdPing,
	"join":       CmdJoin,
	"시참":         CmdJoin,
	"leave":      CmdLeave,
	"시참취소":       CmdLeave,
	"queue":      CmdQueueInfo,
	"queue-info": CmdQueueInfo,
	"대기열":        CmdQueueInfo,
	"kick":       CmdKick,
	"컷":          CmdKick,
	"reorder":    CmdReorder,
	"순서변경":       CmdReorder,
	"invite":     CmdInvite,
	"초대":         CmdInvite,
}

// Command is one parsed chat command.
type Command struct {
	Kind CommandKind
	Word string   // the word as typed, lowercased
	Rest string   // everything after the word, trimmed
	Args []string // Rest split on whitespace
}

// ParseCommand reads `<prefix><word> [args...]`. ok is false for plain chat
// and for unknown words.
func ParseCommand(prefix, text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return Command{}, false
	}
	body := strings.TrimPrefix(text, prefix)
	word, rest, _ := strings.Cut(body, " ")
	word = strings.ToLower(word)

	kind, ok := commandWords[word]
	if !ok {
		return Command{}, false
	}
	rest = strings.TrimSpace(rest)
	return Command{Kind: kind, Word: word, Rest: rest, Args: strings.Fields(rest)}, true
}
