package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Message is the envelope every spectator receives. Type names the event
// (bracket_generated, match_completed, participant_substituted and so on),
// RoomID is the tournament id as a string.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Hub fans bracket events out to websocket clients grouped into one room per
// tournament. Register/Unregister traffic and broadcasts are serialized
// through Run.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()
			h.logger.Debug("spectator joined", slog.String("room", client.room))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, exists := clients[client]; exists {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("spectator left", slog.String("room", client.room))
		}
	}
}

// BroadcastBracketUpdate satisfies the notifier seam of the bracket service.
func (h *Hub) BroadcastBracketUpdate(tournamentID int, event string, payload interface{}) {
	room := strconv.Itoa(tournamentID)
	h.broadcastToRoom(room, Message{Type: event, Payload: payload, RoomID: room})
}

func (h *Hub) broadcastToRoom(room string, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			slog.String("room", room),
			slog.Any("error", err),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop the frame rather than block the hub.
		}
	}
}
