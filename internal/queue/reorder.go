// Package queue - reorder.go
// Admin-driven position changes.
package queue

// Reorder moves the participant at from to position to (both 0-based) and
// returns the moved participant. Indices outside the queue are rejected with
// ErrOutOfRange and leave the queue untouched.
func (w *Waitlist) Reorder(from, to int) (Participant, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(w.entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		return Participant{}, ErrOutOfRange
	}
	moved := w.entries[from]
	if from == to {
		return moved, nil
	}

	// pull out, then open a gap at to
	rest := append(w.entries[:from:from], w.entries[from+1:]...)
	rest = append(rest, Participant{})
	copy(rest[to+1:], rest[to:])
	rest[to] = moved
	w.entries = rest
	return moved, nil
}
