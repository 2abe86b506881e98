package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/getmockd/hookd/pkg/httputil"
	"github.com/getmockd/hookd/pkg/sse"
)

// wsWriteTimeout bounds a single WebSocket write or ping.
const wsWriteTimeout = 10 * time.Second

// observer is a transport that delivers events to one live client.
type observer interface {
	Send(data []byte) error
	Keepalive() error
}

// observe subscribes to spaceKey and pumps events and keep-alives to o until
// the client leaves, a write fails, or the server shuts streams down.
func (s *Server) observe(ctx context.Context, spaceKey, transport string, o observer) {
	sub := s.svc.Events().Subscribe(spaceKey)
	defer sub.Close()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	log := s.log.With("space", spaceKey, "subscription", sub.ID(), "transport", transport)
	log.Debug("observer connected")

	if err := o.Send([]byte(sse.ReadyMessage)); err != nil {
		log.Warn("observer delivery failed", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug("observer disconnected")
			return
		case <-s.streamsDone:
			return
		case rec, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(rec)
			if err != nil {
				log.Error("failed to encode record", "record", rec.ID, "error", err)
				continue
			}
			if err := o.Send(data); err != nil {
				log.Warn("observer delivery failed", "record", rec.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := o.Keepalive(); err != nil {
				log.Warn("observer heartbeat failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	stream, err := sse.NewStream(w)
	if err != nil {
		s.log.Error("cannot open event stream", "error", err)
		httputil.WriteInternalError(w)
		return
	}
	s.observe(r.Context(), chi.URLParam(r, "space"), "sse", stream)
}

// wsObserver adapts a WebSocket connection to the observer interface.
type wsObserver struct {
	ctx  context.Context
	conn *ws.Conn
}

func (o *wsObserver) Send(data []byte) error {
	ctx, cancel := context.WithTimeout(o.ctx, wsWriteTimeout)
	defer cancel()
	return o.conn.Write(ctx, ws.MessageText, data)
}

func (o *wsObserver) Keepalive() error {
	ctx, cancel := context.WithTimeout(o.ctx, wsWriteTimeout)
	defer cancel()
	return o.conn.Ping(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true, // origins are governed by the CORS policy
	})
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	// CloseRead services control frames (pongs, close) and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	s.observe(ctx, chi.URLParam(r, "space"), "websocket", &wsObserver{ctx: ctx, conn: conn})
	_ = conn.Close(ws.StatusNormalClosure, "")
}
