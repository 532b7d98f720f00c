package server

import (
	"encoding/json"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/compmap/eventmap/internal/dispatcher"
	"github.com/compmap/eventmap/pkg/streaming"
)

// afterSubscribe runs between joining the hub and taking the state
// snapshot. Swapped in tests.
var afterSubscribe = func() {}

// handleWS upgrades to a WebSocket, sends the current state and then
// streams deltas. Clients may send "event" envelopes carrying a
// dispatcher.Event; each is answered with an ack or an error.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	// Join the hub before the snapshot so no delta falls in between. A delta
	// queued ahead of the state is already reflected in it.
	c := newClient(conn, s.logger)
	s.hub.add(c)
	afterSubscribe()
	if data, err := streaming.Encode(streaming.TypeState, s.app.Snapshot()); err == nil {
		c.send(data)
	}
	s.logger.Debug("WebSocket client connected", "clients", s.hub.Len())

	go c.writeLoop()
	s.readLoop(c)

	s.hub.remove(c)
	c.close()
	s.logger.Debug("WebSocket client disconnected", "clients", s.hub.Len())
}

func (s *Server) readLoop(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				s.logger.Debug("WebSocket read error", "error", err)
			}
			return
		}

		var env streaming.Envelope
		if err := json.Unmarshal(message, &env); err != nil || env.Type != streaming.TypeEvent {
			s.reply(c, streaming.TypeError, streaming.ErrorPayload{Error: "expected an event envelope"})
			continue
		}

		var e dispatcher.Event
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			s.reply(c, streaming.TypeError, streaming.ErrorPayload{Error: err.Error()})
			continue
		}

		// deltas reach this client through the hub
		if _, err := s.dispatcher.Dispatch(e); err != nil {
			s.reply(c, streaming.TypeError, streaming.ErrorPayload{Command: e.Command, Error: err.Error()})
			continue
		}
		if data, err := streaming.Ack(e.Command); err == nil {
			c.send(data)
		}
	}
}

func (s *Server) reply(c *client, typ string, payload any) {
	data, err := streaming.Encode(typ, payload)
	if err != nil {
		s.logger.Error("Failed to encode reply", "error", err)
		return
	}
	c.send(data)
}
