package ui

import (
	"fmt"
)

func Pong(user string) string {
	return mention(user) + " pong"
}

func Joined(user, handle string, pos int) string {
	return fmt.Sprintf("%s %s was added to the queue. You are number %d.", mention(user), quote(handle), pos)
}

func HandleChanged(user, prev, next string, pos int) string {
	return fmt.Sprintf("%s your queue name changed from %s to %s. You are number %d.", mention(user), quote(prev), quote(next), pos)
}

func AlreadyRegistered(user, handle string) string {
	return fmt.Sprintf("%s you are already in the queue as %s.", mention(user), quote(handle))
}

func JoinUsage(user, prefix string) string {
	return fmt.Sprintf("%s tell me your in-game name. e.g. %sjoin Hide on bush", mention(user), prefix)
}

func Left(user string) string {
	return mention(user) + " you left the queue."
}

func NotQueued(user string) string {
	return mention(user) + " you are not in the queue."
}

func Kicked(name, handle string) string {
	return fmt.Sprintf("%s (%s) was removed from the queue.", safe(name), safe(handle))
}

func KickMissing(name string) string {
	return fmt.Sprintf("%s is not in the queue.", safe(name))
}

func Reordered(from, to int, name string) string {
	return fmt.Sprintf("Moved #%d (%s) to #%d.", from, safe(name), to)
}

func ReorderUsage(user, prefix string) string {
	return fmt.Sprintf("%s write it properly: %sreorder <from> <to>", mention(user), prefix)
}

func ReorderOutOfRange(user string, size int) string {
	if size == 0 {
		return mention(user) + " the queue is empty."
	}
	return fmt.Sprintf("%s positions must be between 1 and %d.", mention(user), size)
}

func Invited(user, summoner string) string {
	return fmt.Sprintf("%s invite sent to %s.", mention(user), quote(summoner))
}

func InviteDenied(user string, slots int) string {
	return fmt.Sprintf("%s only the first %d in the queue can ask for an invite.", mention(user), slots)
}

func InviteFailed(user, handle string) string {
	return fmt.Sprintf("%s could not invite %s.", mention(user), quote(handle))
}
