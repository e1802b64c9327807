package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgClueRevealed     MessageType = "clue_revealed"
	MsgEnergyUpdate     MessageType = "energy_update"
	MsgEvaluationResult MessageType = "evaluation_result"
	MsgStatsUpdate      MessageType = "stats_update"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages the player dashboard connections. Each player gets their
// own stream of investigation progress events; there is no cross-player
// traffic.
type Hub struct {
	playerConns map[string]*Connection // playerID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	PlayerID string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to deliver to one player
type BroadcastMessage struct {
	PlayerID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		playerConns: make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if existing, ok := h.playerConns[conn.PlayerID]; ok {
				close(existing.Send)
			}
			h.playerConns[conn.PlayerID] = conn
			h.mu.Unlock()
			log.Printf("Player %s connected to dashboard", conn.PlayerID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.playerConns[conn.PlayerID]; ok && existing == conn {
				delete(h.playerConns, conn.PlayerID)
				close(conn.Send)
				log.Printf("Player %s disconnected from dashboard", conn.PlayerID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			if conn, ok := h.playerConns[msg.PlayerID]; ok {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToPlayer sends a message to a specific player (implements service.Broadcaster)
func (h *Hub) BroadcastToPlayer(playerID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		PlayerID: playerID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
