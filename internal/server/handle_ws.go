package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PlayMessage is a reply on the play channel. Controller events are sent
// alongside as EventMessage.
type PlayMessage struct {
	Type    string                `json:"type"`
	Outcome *MatchOutcomeResponse `json:"outcome,omitempty"`
	Session *SessionResponse      `json:"session,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// handlePlay upgrades to a WebSocket that takes SelectRequest messages and
// pushes the session's events. One goroutine owns all writes.
func handlePlay(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := sessionFrom(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "session_id", c.ID(), "error", err)
			return
		}
		defer conn.Close()

		events := broker.Subscribe(c.ID())
		defer broker.Unsubscribe(c.ID(), events)

		replies := make(chan PlayMessage, 8)
		writeDone := make(chan struct{})

		go func() {
			defer close(writeDone)
			defer conn.Close()

			ping := time.NewTicker(wsPingInterval)
			defer ping.Stop()

			for {
				select {
				case msg := <-events:
					conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
						return
					}
				case reply, ok := <-replies:
					conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
					if !ok {
						conn.WriteMessage(websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
						return
					}
					if err := conn.WriteJSON(reply); err != nil {
						return
					}
				case <-ping.C:
					conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()

		send := func(m PlayMessage) bool {
			select {
			case replies <- m:
				return true
			case <-writeDone:
				return false
			}
		}

		snapshot := sessionResponse(c.Snapshot())
		if !send(PlayMessage{Type: "snapshot", Session: &snapshot}) {
			return
		}

		for {
			var req SelectRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("websocket read ended", "session_id", c.ID(), "error", err)
				}
				break
			}

			resp, _, err := applySelect(c, req)
			reply := PlayMessage{Type: "selected", Outcome: resp.Outcome, Session: &resp.Session}
			if err != nil {
				reply = PlayMessage{Type: "error", Error: err.Error()}
			}
			if !send(reply) {
				break
			}
		}

		close(replies)
		<-writeDone
	}
}
