package wshub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"dartscorer/internal/dart"
	"dartscorer/internal/engine"
	"dartscorer/internal/game"
)

// Client message types.
const (
	TypeThrow = "throw"
	TypeHits  = "hits"
	TypeUndo  = "undo"
)

// Server message types.
const (
	TypeState  = "state"
	TypeResult = "result"
	TypeJoin   = "join"
	TypeLeave  = "leave"
)

// ClientMessage is the JSON structure received from keypads and sensor feeds.
type ClientMessage struct {
	Type       string `json:"t"`
	Segment    string `json:"s,omitempty"`
	Base       int    `json:"b,omitempty"`
	Multiplier int    `json:"m,omitempty"`
	Hits       int    `json:"h,omitempty"`
}

// Input converts a throw or hits message into controller input.
func (m ClientMessage) Input() game.Input {
	if m.Type == TypeHits {
		return game.HitsInput(m.Hits)
	}
	return game.ThrowInput(dart.Normalize(dart.SensorRecord{
		Segment:    m.Segment,
		Base:       m.Base,
		Multiplier: m.Multiplier,
	}))
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type     string          `json:"t"`
	ClientID string          `json:"id,omitempty"`
	Name     string          `json:"n,omitempty"`
	Data     json.RawMessage `json:"d,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Name string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// ReadPump decodes client messages and hands each to fn until the
// connection closes. Malformed frames are skipped.
func (c *Client) ReadPump(ctx context.Context, fn func(ClientMessage)) error {
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Str("client", c.ID).Msg("bad ws frame")
			continue
		}
		fn(msg)
	}
}

// Hub manages per-board WebSocket connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub and announces it to the others.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.BroadcastExcept(c.ID, ServerMessage{Type: TypeJoin, ClientID: c.ID, Name: c.Name})
}

// Unregister removes a client and closes its Send channel, then broadcasts a leave message.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		close(c.Send)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if ok {
		h.BroadcastExcept(id, ServerMessage{
			Type:     TypeLeave,
			ClientID: id,
		})
	}
}

// Close disconnects every client. Their Send channels are closed so the
// write pumps exit, and the connections are closed so the read pumps do.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if c.Conn != nil {
			go c.Conn.Close(websocket.StatusGoingAway, "board closed")
		}
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.BroadcastExcept("", msg)
}

// BroadcastExcept sends a message to all clients except the sender. Non-blocking: drops if channel full.
func (h *Hub) BroadcastExcept(senderID string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("ws marshal")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.clients {
		if id == senderID {
			continue
		}
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// SendTo delivers a message to a single client.
func (h *Hub) SendTo(id string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("ws marshal")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[id]; ok {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// Publish pushes a session update to every connected client.
func (h *Hub) Publish(u engine.Update) {
	data, err := json.Marshal(u)
	if err != nil {
		log.Error().Err(err).Str("kind", u.Kind).Msg("marshal update")
		return
	}
	h.Broadcast(ServerMessage{Type: TypeState, Data: data})
}
