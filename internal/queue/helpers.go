// Package queue - helpers.go
// Small internal helpers kept separate to keep waitlist.go focused.
package queue

import "strings"

// NormalizeHandle folds a game handle for roster comparisons:
// surrounding whitespace is dropped and case is ignored.
func NormalizeHandle(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// indexWhere returns the first index whose entry satisfies match, or -1.
// It is intended to be called under the Waitlist mutex.
func indexWhere(ps []Participant, match func(Participant) bool) int {
	for i, p := range ps {
		if match(p) {
			return i
		}
	}
	return -1
}

// snapshot returns a copy of ps that callers may keep after the lock is released.
func snapshot(ps []Participant) []Participant {
	return append([]Participant(nil), ps...)
}
