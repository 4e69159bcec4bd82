// Package channel hosts the websocket chat gateway: the byte-level
// inbound/outbound messaging channel the conversation core sits behind.
package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// connection wraps a websocket connection with write serialization.
// Gorilla websockets support one concurrent writer, and replies and
// progress notices may race for the same user.
type connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *connection) writeText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

// Registry tracks the live connection per user key and doubles as the
// outbound side of the channel: the bot's progress notices are delivered
// through it.
type Registry struct {
	conns map[string]*connection
	mu    sync.RWMutex
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*connection)}
}

func (r *Registry) add(userKey string, ws *websocket.Conn) *connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := &connection{ws: ws}
	r.conns[userKey] = conn
	return conn
}

func (r *Registry) remove(userKey string, conn *connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Only drop the entry if it still refers to this connection; the user
	// may have reconnected in the meantime.
	if r.conns[userKey] == conn {
		delete(r.conns, userKey)
	}
}

func (r *Registry) get(userKey string) (*connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userKey]
	return conn, ok
}

// Notify implements bot.Notifier by writing a text frame to the user's
// live connection, if any.
func (r *Registry) Notify(_ context.Context, userKey, text string) error {
	conn, ok := r.get(userKey)
	if !ok {
		return fmt.Errorf("no connection for user %q", userKey)
	}
	return conn.writeText(text)
}
