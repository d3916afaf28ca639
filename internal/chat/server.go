package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/secondbrain-dev/secondbrain/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 32
)

// Envelope is the wire format in both directions.
type Envelope struct {
	Type    string   `json:"type"`
	Payload *Payload `json:"payload,omitempty"`
	Message string   `json:"message,omitempty"`
	Hash    string   `json:"hash,omitempty"`
	Room    string   `json:"room,omitempty"`
}

type Payload struct {
	Room     string `json:"room,omitempty"`
	Message  string `json:"message,omitempty"`
	ClientID string `json:"clientId,omitempty"`
}

// Server relays chat frames between clients grouped into rooms.
type Server struct {
	registry *Registry
	upgrader websocket.Upgrader
}

func NewServer(registry *Registry) *Server {
	return &Server{
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range types.AllowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn)

	go client.writePump()

	s.reply(client, Envelope{Type: "system", Message: "Connected to chat server"})

	s.readLoop(client)
}

func (s *Server) readLoop(client *Client) {
	defer func() {
		s.registry.Leave(client)
		log.Printf("Client %s disconnected", client.ID)
	}()

	client.conn.SetReadLimit(maxMessageSize)
	if err := client.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for client %s: %v", client.ID, err)
			}
			return
		}

		var frame Envelope

		if err := json.Unmarshal(message, &frame); err != nil {
			s.reply(client, Envelope{Type: "error", Message: "Invalid message format"})
			continue
		}

		switch frame.Type {
		case "create":
			hash := s.registry.CreateRoom()
			log.Printf("Client %s created room %s", client.ID, hash)
			s.reply(client, Envelope{Type: "room_created", Hash: hash})

		case "join":
			if frame.Payload == nil || frame.Payload.Room == "" {
				s.reply(client, Envelope{Type: "error", Message: "Room is required"})
				continue
			}

			if !s.registry.Join(frame.Payload.Room, client) {
				s.reply(client, Envelope{Type: "error", Message: "Room not found! Please create a room first."})
				continue
			}

			log.Printf("Client %s joined room %s", client.ID, frame.Payload.Room)
			s.reply(client, Envelope{Type: "joined", Room: frame.Payload.Room})

		case "chat":
			if frame.Payload == nil {
				s.reply(client, Envelope{Type: "error", Message: "Payload is required"})
				continue
			}

			out, err := json.Marshal(Envelope{
				Type: "chat",
				Payload: &Payload{
					Message:  frame.Payload.Message,
					ClientID: frame.Payload.ClientID,
				},
			})

			if err != nil {
				continue
			}

			if !s.registry.Broadcast(client, out) {
				s.reply(client, Envelope{Type: "error", Message: "Join a room before chatting"})
			}

		default:
			s.reply(client, Envelope{Type: "error", Message: "Unknown message type"})
		}
	}
}

// reply queues a frame to a single client, disconnecting it if its queue is
// already full.
func (s *Server) reply(client *Client, frame Envelope) {
	out, err := json.Marshal(frame)
	if err != nil {
		return
	}

	if !client.enqueue(out) {
		s.registry.Leave(client)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
