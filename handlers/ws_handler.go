package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/cueclub/tournament-engine/live"
)

var errInvalidRoom = errors.New("tournament id is required")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectating a bracket is public; origin checks add nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the connection and joins the spectator to the
// tournament's room.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "tournamentID")
	if room == "" {
		badRequestResponse(w, errInvalidRoom)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}
	live.NewClient(h.hub, conn, room).Join()
}
