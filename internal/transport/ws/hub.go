// Package ws bridges the studio notification bus to websocket subscribers.
// Every event published after a successful command dispatch is fanned out to
// all connected clients as one JSON text frame.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/events"
)

const writeWait = 10 * time.Second

// Hub owns all live websocket subscribers.
type Hub struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]*subscriber
	upgrader    websocket.Upgrader
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Attach subscribes the hub to every topic on the bus so dispatch events
// reach connected clients.
func (h *Hub) Attach(bus *events.Bus) {
	if bus == nil {
		return
	}
	bus.SubscribeAll(func(evt events.Event) error {
		h.Broadcast(evt)
		return nil
	})
}

// Handle upgrades an HTTP request to a websocket subscription. The connection
// stays registered until the client closes it or a write fails.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	id := h.subscribe(conn)

	// Drain client frames so close messages and pings are processed; the
	// studio protocol is server-to-client only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.disconnect(id)
}

// Broadcast sends the event to every subscriber. Subscribers whose write
// fails are disconnected.
func (h *Hub) Broadcast(evt events.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("encode event %s: %v", evt.Topic, err)
		return
	}

	h.mu.Lock()
	subs := make(map[uint64]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			log.Printf("send event to subscriber %d: %v", id, err)
			h.disconnect(id)
		}
	}
}

// SubscriberCount reports the number of live connections.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) subscribe(conn *websocket.Conn) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subscribers[id] = &subscriber{conn: conn}
	return id
}

func (h *Hub) disconnect(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		_ = sub.conn.Close()
	}
}
