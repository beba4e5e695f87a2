package services

import (
	"encoding/json"
	"log"

	"github.com/itnxhuy1806/socket-game-be/internal/config"
	"github.com/itnxhuy1806/socket-game-be/internal/models"
	"github.com/itnxhuy1806/socket-game-be/internal/security"
)

// Hub tracks which connections belong to which room and runs the event loop
// that serializes every mutation-plus-broadcast chain. One inbound event is
// processed to completion before the next is taken, so two mutations of the
// same room never interleave and every member of a room observes broadcasts
// in the order the mutating calls were issued.
//
// The rooms map holds socket sets only. Room state lives in the RoomStore and
// outlives the last connection; a broadcast to a room with no sockets is a
// no-op.
type Hub struct {
	// Room connections: roomId -> set of clients. Owned by the Run goroutine.
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	inbound    chan *ClientMessage

	manager *RoomManager
	metrics *Metrics
}

func NewHub(metrics *Metrics) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client, config.HubRegisterBufferSize),
		unregister: make(chan *Client, config.HubRegisterBufferSize),
		inbound:    make(chan *ClientMessage, config.HubInboundBufferSize),
		metrics:    metrics,
	}
}

// SetManager wires the room manager in after construction; the manager needs
// the hub as its dispatcher, so neither can be built with the other ready.
func (h *Hub) SetManager(m *RoomManager) {
	h.manager = m
}

// Run processes registrations, disconnects and client messages one at a time.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.addClient(c)

		case c := <-h.unregister:
			h.removeClient(c)

		case cm := <-h.inbound:
			h.dispatch(cm)
		}
	}
}

// Register joins a connection to its room.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection from its room.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// GetMetrics returns a snapshot of the hub's metrics.
func (h *Hub) GetMetrics() MetricsSnapshot {
	return h.metrics.Snapshot()
}

func (h *Hub) addClient(c *Client) {
	conns := h.rooms[c.roomID]
	if conns == nil {
		conns = make(map[*Client]bool)
		h.rooms[c.roomID] = conns
		h.metrics.IncrementRooms()
	}
	conns[c] = true
	h.metrics.IncrementConnections()

	log.Printf("ws registered: room=%s name=%q conn=%s (%d in room)",
		c.roomID, c.name, c.connID, len(conns))

	h.manager.HandleConnect(c.roomID, c.name, c.isHost)
}

func (h *Hub) removeClient(c *Client) {
	conns := h.rooms[c.roomID]
	if conns == nil || !conns[c] {
		return
	}
	delete(conns, c)
	h.metrics.DecrementConnections()
	if len(conns) == 0 {
		delete(h.rooms, c.roomID)
		h.metrics.DecrementRooms()
	}

	log.Printf("ws unregistered: room=%s name=%q conn=%s", c.roomID, c.name, c.connID)

	h.manager.HandleDisconnect(c.roomID, c.name, c.connID)
	c.Close()
}

func (h *Hub) dispatch(cm *ClientMessage) {
	var msg models.InboundMessage
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		log.Printf("bad frame from conn=%s: %v", cm.Client.connID, err)
		return
	}
	if !security.IsValidMessageType(msg.Type) {
		log.Printf("unknown message type %q from conn=%s", msg.Type, cm.Client.connID)
		return
	}

	h.metrics.IncrementMessagesReceived()
	h.manager.HandleMessage(cm.Client.roomID, &msg)
}

// BroadcastToRoom delivers msg to every socket joined to the room, including
// the one whose action triggered it. Only the Run goroutine may call this.
func (h *Hub) BroadcastToRoom(roomID string, msg *models.WSMessage) {
	h.broadcast(roomID, msg, "")
}

// BroadcastToRoomExcept suppresses delivery to one connection, used when a
// participant disconnects so the departing socket is never targeted.
func (h *Hub) BroadcastToRoomExcept(roomID string, msg *models.WSMessage, exceptConnID string) {
	h.broadcast(roomID, msg, exceptConnID)
}

func (h *Hub) broadcast(roomID string, msg *models.WSMessage, exceptConnID string) {
	conns := h.rooms[roomID]
	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal %s: %v", msg.Type, err)
		h.metrics.IncrementBroadcastErrors()
		return
	}

	for c := range conns {
		if exceptConnID != "" && c.connID == exceptConnID {
			continue
		}
		c.Send(data)
	}
}

// ClientMessage is a raw frame received from a client, queued for the Run loop.
type ClientMessage struct {
	Client *Client
	Data   []byte
}
