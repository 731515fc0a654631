package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"confshare/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. We only stream OUT, so inbound is tiny.
	maxMessageSize = 512
)

// CheckOrigin returns true because the router's CORS middleware already
// validated the Origin header before the upgrade reaches us.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler streams configuration change events over a websocket.
type EventsHandler struct {
	Stream domain.ConfigurationStream
	Logger *slog.Logger
}

func NewEventsHandler(stream domain.ConfigurationStream, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		Stream: stream,
		Logger: logger,
	}
}

// WatchConfiguration handles GET /api/v1/ws/configurations/{id}
func (h *EventsHandler) WatchConfiguration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing configuration id", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade WebSocket connection",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return
	}

	events := h.Stream.Subscribe(id)
	defer h.Stream.Unsubscribe(id, events)

	// Read and write run in separate goroutines; the read pump only services
	// control frames and disconnect detection.
	go h.readPump(ws, id)
	h.writePump(ws, events, id)
}

func (h *EventsHandler) writePump(ws *websocket.Conn, events <-chan domain.ConfigurationEvent, id string) {
	defer func() {
		ws.Close()
		h.Logger.Info("WebSocket write pump closed", slog.String("id", id))
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			ws.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Stream closed"))
				return
			}

			if err := ws.WriteJSON(ev); err != nil {
				h.Logger.Error("Failed to write JSON to WebSocket",
					slog.String("id", id),
					slog.String("error", err.Error()),
				)
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Client disconnected, exit the loop
			}
		}
	}
}

func (h *EventsHandler) readPump(ws *websocket.Conn, id string) {
	defer ws.Close()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// One-way stream: we only read to process control frames and detect
	// disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Logger.Warn("WebSocket closed unexpectedly",
					slog.String("id", id),
					slog.String("error", err.Error()),
				)
			}
			break
		}
	}
}
