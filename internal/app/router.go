// internal/app/router.go
package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/chat"
	"github.com/jose-valero/lcu-queue-bot/internal/queue"
	"github.com/jose-valero/lcu-queue-bot/internal/ui"
)

// handleChat runs on the loop.
func (b *Bot) handleChat(m chat.Message) {
	cmd, ok := ParseCommand(b.opts.Prefix, m.Text)
	if !ok {
		return
	}
	b.log.Debug("command",
		zap.Stringer("kind", cmd.Kind),
		zap.String("user", m.DisplayName),
		zap.String("uid", m.UserID),
		zap.String("args", cmd.Rest),
	)

	switch cmd.Kind {
	case CmdPing:
		b.say(m.Channel, ui.Pong(m.DisplayName))
	case CmdJoin:
		b.join(m, cmd.Rest)
	case CmdLeave:
		b.leave(m)
	case CmdQueueInfo:
		b.queueInfo(m)
	case CmdKick:
		if !b.isAdmin(m) {
			return
		}
		b.kick(m, cmd.Rest)
	case CmdReorder:
		if !b.isAdmin(m) {
			return
		}
		b.reorder(m, cmd.Args)
	case CmdInvite:
		b.invite(m)
	}
}

func (b *Bot) join(m chat.Message, handle string) {
	if handle == "" {
		b.say(m.Channel, ui.JoinUsage(m.DisplayName, b.opts.Prefix))
		return
	}
	p := queue.Participant{ID: m.UserID, DisplayName: m.DisplayName, GameHandle: handle}

	if b.list.Contains(m.UserID) {
		up, err := b.list.Update(p)
		if err != nil {
			b.log.Error("update failed", zap.String("uid", m.UserID), zap.Error(err))
			return
		}
		if up.Previous.GameHandle == up.Updated.GameHandle {
			b.say(m.Channel, ui.AlreadyRegistered(m.DisplayName, up.Updated.GameHandle))
			return
		}
		b.log.Info("handle changed", zap.String("user", m.DisplayName), zap.String("from", up.Previous.GameHandle), zap.String("to", up.Updated.GameHandle))
		b.say(m.Channel, ui.HandleChanged(m.DisplayName, up.Previous.GameHandle, up.Updated.GameHandle, up.Index+1))
		return
	}

	pos, err := b.list.Push(p)
	if err != nil {
		b.log.Error("push failed", zap.String("uid", m.UserID), zap.Error(err))
		return
	}
	b.log.Info("joined", zap.String("user", m.DisplayName), zap.String("handle", handle), zap.Int("pos", pos))
	b.say(m.Channel, ui.Joined(m.DisplayName, handle, pos))
}

func (b *Bot) leave(m chat.Message) {
	if _, ok := b.list.Remove(m.UserID); !ok {
		b.say(m.Channel, ui.NotQueued(m.DisplayName))
		return
	}
	b.log.Info("left", zap.String("user", m.DisplayName))
	b.say(m.Channel, ui.Left(m.DisplayName))
}

func (b *Bot) queueInfo(m chat.Message) {
	entries := b.list.Snapshot()
	if b.isAdmin(m) {
		for i, p := range entries {
			b.log.Debug("queue", zap.Int("pos", i+1), zap.String("uid", p.ID), zap.String("user", p.DisplayName), zap.String("handle", p.GameHandle))
		}
	}
	pos := -1
	for i, p := range entries {
		if p.ID == m.UserID {
			pos = i
			break
		}
	}
	b.say(m.Channel, ui.QueueInfo(entries, b.opts.InviteSlots, m.DisplayName, pos))
}

func (b *Bot) kick(m chat.Message, target string) {
	name := strings.TrimPrefix(strings.TrimSpace(target), "@")
	p, ok := b.list.FindByDisplayName(name)
	if !ok {
		b.say(m.Channel, ui.KickMissing(name))
		return
	}
	b.list.Remove(p.ID)
	b.log.Info("kicked", zap.String("user", p.DisplayName), zap.String("handle", p.GameHandle))
	b.say(m.Channel, ui.Kicked(p.DisplayName, p.GameHandle))
}

func (b *Bot) reorder(m chat.Message, args []string) {
	if len(args) < 2 {
		b.say(m.Channel, ui.ReorderUsage(m.DisplayName, b.opts.Prefix))
		return
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || from == 0 || to == 0 {
		b.say(m.Channel, ui.ReorderUsage(m.DisplayName, b.opts.Prefix))
		return
	}

	moved, err := b.list.Reorder(from-1, to-1)
	if errors.Is(err, queue.ErrOutOfRange) {
		b.say(m.Channel, ui.ReorderOutOfRange(m.DisplayName, b.list.Len()))
		return
	}
	if err != nil {
		b.log.Error("reorder failed", zap.Error(err))
		return
	}
	b.log.Info("reordered", zap.Int("from", from), zap.Int("to", to), zap.String("user", moved.DisplayName))
	b.say(m.Channel, ui.Reordered(from, to, moved.DisplayName))
}

// invite lets someone in the head of the queue ask for their own invitation.
func (b *Bot) invite(m chat.Message) {
	var me *queue.Participant
	for _, p := range b.list.Head(b.opts.InviteSlots) {
		if p.ID == m.UserID {
			me = &p
			break
		}
	}
	if me == nil {
		b.say(m.Channel, ui.InviteDenied(m.DisplayName, b.opts.InviteSlots))
		return
	}

	handle := me.GameHandle
	b.async(func(ctx context.Context) {
		rctx, cancel := context.WithTimeout(ctx, b.opts.ResolveTimeout)
		s, err := b.gw.SummonerByName(rctx, handle)
		cancel()
		if err != nil {
			b.log.Warn("resolve failed", zap.String("handle", handle), zap.Error(err))
			b.say(m.Channel, ui.InviteFailed(m.DisplayName, handle))
			return
		}
		if _, err := b.gw.Invite(ctx, []int64{s.SummonerID}); err != nil {
			b.log.Warn("invite failed", zap.String("handle", handle), zap.Error(err))
			b.say(m.Channel, ui.InviteFailed(m.DisplayName, handle))
			return
		}
		b.say(m.Channel, ui.Invited(m.DisplayName, s.Name()))
	})
}
