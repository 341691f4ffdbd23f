// Package chat holds the platform-neutral view of a chat channel.
package chat

import "context"

// Message is one inbound chat line.
type Message struct {
	Channel     string
	UserID      string // stable platform id
	DisplayName string
	Text        string
}

// Handler receives inbound messages in delivery order.
type Handler func(Message)

// Sender posts a plain-text line to a channel. Delivery is best-effort.
type Sender interface {
	Say(ctx context.Context, channel, text string) error
}

// Transport is a connected chat platform.
type Transport interface {
	Sender
	// Run connects, feeds messages to h, and blocks until ctx is done.
	Run(ctx context.Context, h Handler) error
}
