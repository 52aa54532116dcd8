// Package hub tracks live player screen subscribers and fans broadcasts out
// to them. A single goroutine owns the subscriber set; everything talks to
// it through typed messages on the inbox, so no locks are needed. A
// broadcast never performs network I/O itself: each subscriber has a
// buffered outbox drained by its own connection writer.
package hub

import (
	"context"

	"go.uber.org/zap"
)

type Msg interface{ isHubMsg() }

// Join registers a subscriber. Replay frames are queued to the outbox before
// the subscriber enters the live set, so a late joiner sees the snapshot
// first and then every broadcast enqueued after its Join, in order.
type Join struct {
	ID     string
	Outbox chan []byte
	Replay [][]byte
}

// Leave removes a subscriber and closes its outbox. Removing an unknown ID
// is a no-op.
type Leave struct{ ID string }

// Broadcast delivers one pre-marshaled payload to every live subscriber.
type Broadcast struct{ Payload []byte }

type Shutdown struct{}

// GetView is test-only: it reflects internal state without data races.
type GetView struct{ Reply chan View }

type View struct{ NumSubscribers int }

func (Join) isHubMsg()      {}
func (Leave) isHubMsg()     {}
func (Broadcast) isHubMsg() {}
func (Shutdown) isHubMsg()  {}
func (GetView) isHubMsg()   {}

type Hub struct {
	inbox  chan Msg
	subs   map[string]chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func New(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan Msg, 64),
		subs:   make(map[string]chan []byte),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				for _, frame := range msg.Replay {
					msg.Outbox <- frame
				}
				h.subs[msg.ID] = msg.Outbox
				h.log.Info("subscriber joined", zap.String("subscriber", msg.ID))

			case Leave:
				if out, ok := h.subs[msg.ID]; ok {
					close(out)
					delete(h.subs, msg.ID)
					h.log.Info("subscriber left", zap.String("subscriber", msg.ID))
				}

			case Broadcast:
				h.broadcast(msg.Payload)

			case GetView:
				msg.Reply <- View{NumSubscribers: len(h.subs)}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

// broadcast attempts delivery to every live subscriber. A full outbox means
// the connection writer is stalled or gone; that subscriber is dropped and
// the rest still receive the payload.
func (h *Hub) broadcast(payload []byte) {
	for id, out := range h.subs {
		select {
		case out <- payload:
		default:
			close(out)
			delete(h.subs, id)
			h.log.Warn("dropping unresponsive subscriber", zap.String("subscriber", id))
		}
	}
}

func (h *Hub) shutdown() {
	for id, out := range h.subs {
		close(out)
		delete(h.subs, id)
	}
	h.cancel()
}
