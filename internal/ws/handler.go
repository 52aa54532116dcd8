package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dungeonmaster/dicetower-backend/internal/hub"
)

const writeTimeout = 3 * time.Second

// JoinFunc registers a new subscriber with the hub. The control layer
// provides it so the state snapshot and the Join are composed atomically
// with respect to concurrent writer broadcasts.
type JoinFunc func(id string, outbox chan []byte)

// Handler upgrades a player screen connection and keeps it registered until
// it disconnects or errors. Inbound frames are heartbeats and are discarded.
func Handler(h *hub.Hub, join JoinFunc, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// Player screens connect from arbitrary LAN origins.
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		id := uuid.NewString()
		out := make(chan []byte, 16)

		join(id, out)
		defer func() { h.Inbox() <- hub.Leave{ID: id} }()

		log.Info("player screen connected", zap.String("subscriber", id), zap.String("remote", r.RemoteAddr))

		// Writer goroutine: drains the outbox onto the socket. The outbox is
		// closed by the hub when the subscriber is dropped or on shutdown.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for payload := range out {
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					// Dead socket; the reader loop will notice and unregister.
					conn.Close(websocket.StatusGoingAway, "write failed")
					return
				}
			}
			conn.Close(websocket.StatusGoingAway, "server closing")
		}()

		// Reader loop. No idle deadline: a silent-but-alive subscriber stays
		// connected, heartbeats are advisory.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				log.Debug("player screen read ended", zap.String("subscriber", id), zap.Error(err))
				return
			}
		}
	}
}
