package events

import (
	"fmt"
	"sort"
	"sync"
)

// Bus routes payloads to handlers registered per topic name.
// Handlers run on the publisher's goroutine; a panicking handler is
// recovered and reported through OnPanic so the others still run.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber[T]

	OnPanic func(topic string, err error)
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: map[string][]subscriber[T]{}}
}

// Subscribe adds fn to topic. Earlier handlers for the same topic are kept.
// The returned func detaches only this handler.
func (b *Bus[T]) Subscribe(topic string, fn func(T)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber[T]{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		ss := b.subs[topic]
		for i, s := range ss {
			if s.id == id {
				ss = append(ss[:i:i], ss[i+1:]...)
				break
			}
		}
		if len(ss) == 0 {
			delete(b.subs, topic)
			return
		}
		b.subs[topic] = ss
	}
}

// Unsubscribe detaches every handler of topic and returns how many there were.
func (b *Bus[T]) Unsubscribe(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.subs[topic])
	delete(b.subs, topic)
	return n
}

// Publish delivers ev to the handlers of topic and returns how many ran.
func (b *Bus[T]) Publish(topic string, ev T) int {
	b.mu.RLock()
	ss := append([]subscriber[T](nil), b.subs[topic]...)
	b.mu.RUnlock()

	for _, s := range ss {
		func() {
			defer func() {
				if r := recover(); r != nil && b.OnPanic != nil {
					b.OnPanic(topic, fmt.Errorf("handler panic: %v", r))
				}
			}()
			s.fn(ev)
		}()
	}
	return len(ss)
}

// Count returns the number of handlers on topic.
func (b *Bus[T]) Count(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Topics lists topics with at least one handler, sorted.
func (b *Bus[T]) Topics() []string {
	b.mu.RLock()
	out := make([]string, 0, len(b.subs))
	for t := range b.subs {
		out = append(out, t)
	}
	b.mu.RUnlock()
	sort.Strings(out)
	return out
}
