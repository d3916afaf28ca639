package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/secondbrain-dev/secondbrain/internal/utils"
)

const roomHashBytes = 16

// Client is one relay connection. Outbound frames go through a bounded queue
// drained by writePump; a full queue marks the client as too slow and it gets
// disconnected rather than stalling the room.
type Client struct {
	ID   string
	conn *websocket.Conn

	room string // guarded by the registry mutex

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// enqueue queues a frame for delivery. Returns false if the client is closed
// or its queue is full.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)

	if c.conn != nil {
		c.conn.Close()
	}
}

// Registry is the process-wide room state: room id -> member set. Rooms are
// ephemeral and in-memory only; they exist from CreateRoom until the process
// exits. All membership changes and fan-out go through its methods.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*Client]bool),
	}
}

// CreateRoom registers a new empty room and returns its identifier.
func (r *Registry) CreateRoom() string {
	hash := utils.RandomToken(roomHashBytes)

	r.mu.Lock()
	r.rooms[hash] = make(map[*Client]bool)
	r.mu.Unlock()

	return hash
}

// Join attaches the client to an existing room, detaching it from its current
// room first. Returns false if the room was never created.
func (r *Registry) Join(room string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, exists := r.rooms[room]

	if !exists {
		return false
	}

	if c.room != "" && c.room != room {
		if prev, ok := r.rooms[c.room]; ok {
			delete(prev, c)
		}
	}

	members[c] = true
	c.room = room

	return true
}

// Leave detaches the client from its room and closes its outbound queue.
// Safe to call more than once; the emptied room stays joinable.
func (r *Registry) Leave(c *Client) {
	r.mu.Lock()

	if c.room != "" {
		if members, ok := r.rooms[c.room]; ok {
			delete(members, c)
		}
		c.room = ""
	}

	r.mu.Unlock()

	c.close()
}

// Broadcast fans a frame out to every member of the sender's room, sender
// included. Returns false if the sender has not joined a room. Members whose
// queue overflows are disconnected individually.
func (r *Registry) Broadcast(sender *Client, frame []byte) bool {
	r.mu.RLock()

	if sender.room == "" {
		r.mu.RUnlock()
		return false
	}

	members := r.rooms[sender.room]

	// Copy so the lock is not held while frames are queued
	targets := make([]*Client, 0, len(members))
	for member := range members {
		targets = append(targets, member)
	}

	r.mu.RUnlock()

	for _, member := range targets {
		if !member.enqueue(frame) {
			r.Leave(member)
		}
	}

	return true
}

// Members reports the current size of a room.
func (r *Registry) Members(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[room])
}
