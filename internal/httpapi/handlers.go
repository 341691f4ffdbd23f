package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jose-valero/lcu-queue-bot/internal/adapters/lcu"
	"github.com/jose-valero/lcu-queue-bot/internal/queue"
)

type QueueSource interface {
	Queue(ctx context.Context) ([]queue.Participant, error)
}

type SocketStatus interface {
	State() lcu.State
	Topics() []string
	LastCloseCode() int
}

type queueEntry struct {
	Position    int       `json:"position"`
	DisplayName string    `json:"displayName"`
	GameHandle  string    `json:"gameHandle"`
	JoinedAt    time.Time `json:"joinedAt"`
}

type queueView struct {
	Total   int          `json:"total"`
	Entries []queueEntry `json:"entries"`
}

type socketView struct {
	State         string   `json:"state"`
	Topics        []string `json:"topics"`
	LastCloseCode int      `json:"lastCloseCode,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func GetQueue(q QueueSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		ps, err := q.Queue(ctx)
		if err != nil {
			http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
			return
		}
		v := queueView{Total: len(ps), Entries: make([]queueEntry, 0, len(ps))}
		for i, p := range ps {
			v.Entries = append(v.Entries, queueEntry{
				Position:    i + 1,
				DisplayName: p.DisplayName,
				GameHandle:  p.GameHandle,
				JoinedAt:    p.JoinedAt,
			})
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func GetSocket(s SocketStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics := s.Topics()
		if topics == nil {
			topics = []string{}
		}
		writeJSON(w, http.StatusOK, socketView{
			State:         s.State().String(),
			Topics:        topics,
			LastCloseCode: s.LastCloseCode(),
		})
	}
}
