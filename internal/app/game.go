package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jose-valero/lcu-queue-bot/internal/domain/match"
	"github.com/jose-valero/lcu-queue-bot/internal/queue"
)

// onLobbyCreated invites the head of the queue. Runs on the loop; the
// lookups and the invitation run off it.
func (b *Bot) onLobbyCreated() {
	head := b.list.Head(b.opts.InviteSlots)
	if len(head) == 0 {
		b.log.Info("lobby created, queue empty")
		return
	}
	batch := uuid.NewString()
	b.log.Info("lobby created, inviting head", zap.String("batch", batch), zap.Int("count", len(head)))
	b.async(func(ctx context.Context) { b.inviteHead(ctx, batch, head) })
}

// inviteHead resolves every handle concurrently and sends one invitation with
// the resolved ids in queue order. Lookups that fail are logged and skipped.
func (b *Bot) inviteHead(ctx context.Context, batch string, head []queue.Participant) {
	log := b.log.With(zap.String("batch", batch))

	ids := make([]int64, len(head))
	found := make([]bool, len(head))
	var g errgroup.Group
	for i, p := range head {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(ctx, b.opts.ResolveTimeout)
			defer cancel()
			s, err := b.gw.SummonerByName(rctx, p.GameHandle)
			if err != nil {
				log.Warn("resolve failed", zap.String("user", p.DisplayName), zap.String("handle", p.GameHandle), zap.Error(err))
				return nil
			}
			ids[i], found[i] = s.SummonerID, true
			return nil
		})
	}
	_ = g.Wait()

	resolved := make([]int64, 0, len(head))
	for i := range head {
		if found[i] {
			resolved = append(resolved, ids[i])
		}
	}
	if len(resolved) == 0 {
		log.Warn("nobody to invite")
		return
	}

	inv, err := b.gw.Invite(ctx, resolved)
	if err != nil {
		log.Error("invite failed", zap.Int64s("ids", resolved), zap.Error(err))
		return
	}
	log.Info("invited", zap.Int64s("ids", resolved), zap.Int("acknowledged", len(inv)))
}

func (b *Bot) onPhase(ev PhaseChanged) {
	b.log.Info("gameflow phase", zap.String("phase", string(ev.Phase)))
	if ev.Phase != match.PhaseGameStart {
		return
	}

	set := make(map[string]struct{})
	for _, n := range ev.Roster.Names() {
		if h := queue.NormalizeHandle(n); h != "" {
			set[h] = struct{}{}
		}
	}
	for _, p := range b.list.RemoveHandles(set) {
		b.log.Info("removed from queue, in game", zap.String("user", p.DisplayName), zap.String("handle", p.GameHandle))
	}
}
