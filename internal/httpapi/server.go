// Package httpapi is the control surface: the game master mutates roll and
// screen state over HTTP, player screens subscribe over /ws/roll.
package httpapi

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dungeonmaster/dicetower-backend/internal/detect"
	"github.com/dungeonmaster/dicetower-backend/internal/hub"
	"github.com/dungeonmaster/dicetower-backend/internal/roll"
	"github.com/dungeonmaster/dicetower-backend/internal/store"
)

// Server owns every handler dependency. Constructed once at process start
// and injected into the router; no package-level state.
type Server struct {
	// mu serializes each mutate-and-broadcast sequence, and the
	// snapshot-and-join sequence of a new subscriber, so interleaved writers
	// cannot reorder a store write relative to its broadcast. Reads do not
	// take it; the store has its own lock.
	mu       sync.Mutex
	store    *store.Store
	hub      *hub.Hub
	detector detect.Detector
	log      *zap.Logger
}

func NewServer(st *store.Store, h *hub.Hub, det detect.Detector, log *zap.Logger) *Server {
	return &Server{
		store:    st,
		hub:      h,
		detector: det,
		log:      log,
	}
}

// joinSubscriber builds the replay snapshot and hands the new connection to
// the hub. Done under mu so no broadcast can slip between the snapshot read
// and the Join; the hub inbox is FIFO, so the subscriber sees the snapshot
// first and every later broadcast in order.
func (s *Server) joinSubscriber(id string, outbox chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replay := make([][]byte, 0, 2)
	if rec, _, ok := s.store.Roll(); ok {
		replay = append(replay, roll.RollEvent(rec))
	} else {
		replay = append(replay, roll.ClearEvent())
	}
	mode, url := s.store.Screen()
	replay = append(replay, roll.ModeEvent(mode, url))

	s.hub.Inbox() <- hub.Join{ID: id, Outbox: outbox, Replay: replay}
}
