// Package ui renders the chat replies. Positions in replies are 1-based.
package ui

import (
	"fmt"
	"strings"

	"github.com/jose-valero/lcu-queue-bot/internal/queue"
)

// QueueInfo summarizes the queue: the first slots display names, the total,
// how many wait behind them, and the requester's own position when queued
// (pos is 0-based, -1 when absent).
func QueueInfo(entries []queue.Participant, slots int, requester string, pos int) string {
	n := len(entries)
	if n == 0 {
		return "The queue is empty, 0 waiting."
	}

	head := entries
	if slots > 0 && n > slots {
		head = entries[:slots]
	}
	names := make([]string, 0, len(head))
	for _, p := range head {
		names = append(names, p.DisplayName)
	}

	var b strings.Builder
	if rest := n - len(head); rest > 0 {
		fmt.Fprintf(&b, "%s and %d more, %d waiting in total.", nameList(names), rest, n)
	} else {
		fmt.Fprintf(&b, "%s, %d waiting in total.", nameList(names), n)
	}
	if pos >= 0 {
		fmt.Fprintf(&b, " %s you are number %d.", mention(requester), pos+1)
	}
	return b.String()
}
