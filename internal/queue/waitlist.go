package queue

import (
	"strings"
	"sync"
	"time"
)

// Waitlist is the ordered list of viewers waiting to be invited.
// Position 0 is the head. Every participant ID appears at most once.
type Waitlist struct {
	mu      sync.Mutex
	entries []Participant
	now     func() time.Time
}

func NewWaitlist() *Waitlist {
	return &Waitlist{now: time.Now}
}

func (w *Waitlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Contains reports whether the participant with id is queued.
func (w *Waitlist) Contains(id string) bool {
	return w.IndexOf(id) >= 0
}

// IndexOf returns the 0-based position of id, or -1.
func (w *Waitlist) IndexOf(id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return indexWhere(w.entries, func(p Participant) bool { return p.ID == id })
}

func (w *Waitlist) FindByID(id string) (Participant, bool) {
	return w.find(func(p Participant) bool { return p.ID == id })
}

// FindByDisplayName matches display names case-insensitively.
func (w *Waitlist) FindByDisplayName(name string) (Participant, bool) {
	name = strings.TrimSpace(name)
	return w.find(func(p Participant) bool { return strings.EqualFold(p.DisplayName, name) })
}

// FindByGameHandle returns the first participant registered under handle.
func (w *Waitlist) FindByGameHandle(handle string) (Participant, bool) {
	n := NormalizeHandle(handle)
	return w.find(func(p Participant) bool { return NormalizeHandle(p.GameHandle) == n })
}

func (w *Waitlist) find(match func(Participant) bool) (Participant, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := indexWhere(w.entries, match); i >= 0 {
		return w.entries[i], true
	}
	return Participant{}, false
}

// Push appends p and returns its 1-based position.
func (w *Waitlist) Push(p Participant) (int, error) {
	if strings.TrimSpace(p.GameHandle) == "" {
		return 0, ErrEmptyHandle
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if indexWhere(w.entries, func(e Participant) bool { return e.ID == p.ID }) >= 0 {
		return 0, ErrAlreadyIn
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = w.now()
	}
	w.entries = append(w.entries, p)
	return len(w.entries), nil
}

// Update replaces the game handle of a queued participant without moving it.
// The display name is refreshed as well since it may have changed on the platform.
func (w *Waitlist) Update(p Participant) (Update, error) {
	if strings.TrimSpace(p.GameHandle) == "" {
		return Update{}, ErrEmptyHandle
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	i := indexWhere(w.entries, func(e Participant) bool { return e.ID == p.ID })
	if i < 0 {
		return Update{}, ErrNotIn
	}
	prev := w.entries[i]
	next := prev
	next.GameHandle = p.GameHandle
	if p.DisplayName != "" {
		next.DisplayName = p.DisplayName
	}
	w.entries[i] = next
	return Update{Previous: prev, Updated: next, Index: i}, nil
}

// Remove deletes the participant with id. ok is false when it was not queued.
func (w *Waitlist) Remove(id string) (removed Participant, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := indexWhere(w.entries, func(e Participant) bool { return e.ID == id })
	if i < 0 {
		return Participant{}, false
	}
	removed = w.entries[i]
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
	return removed, true
}

// RemoveByGameHandle deletes every participant registered under handle.
func (w *Waitlist) RemoveByGameHandle(handle string) []Participant {
	n := NormalizeHandle(handle)
	return w.RemoveHandles(map[string]struct{}{n: {}})
}

// RemoveHandles deletes every participant whose normalized game handle is in
// set and returns them in queue order. Keys of set must already be normalized.
func (w *Waitlist) RemoveHandles(set map[string]struct{}) []Participant {
	if len(set) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	var removed []Participant
	kept := w.entries[:0]
	for _, p := range w.entries {
		if _, hit := set[NormalizeHandle(p.GameHandle)]; hit {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	w.entries = kept
	return removed
}

// Head returns a copy of the first n participants.
func (w *Waitlist) Head(n int) []Participant {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n > len(w.entries) {
		n = len(w.entries)
	}
	if n <= 0 {
		return nil
	}
	return snapshot(w.entries[:n])
}

// Snapshot returns a copy of the whole queue.
func (w *Waitlist) Snapshot() []Participant {
	w.mu.Lock()
	defer w.mu.Unlock()
	return snapshot(w.entries)
}
