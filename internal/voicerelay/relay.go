package voicerelay

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/secondbrain-dev/secondbrain/internal/types"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	handshakeTimeout = 10 * time.Second
)

// Server pairs every browser connection with a fresh outbound connection to
// the speech-recognition backend and forwards frames verbatim in both
// directions. Pairs are fully independent; there is no cross-client state.
type Server struct {
	upstreamURL string
	upgrader    websocket.Upgrader
	dialer      *websocket.Dialer
}

func NewServer(upstreamURL string) *Server {
	return &Server{
		upstreamURL: upstreamURL,
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
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

// pair is one client/upstream connection pair. The client socket has two
// writers (the upstream pump and the ping ticker), so its writes go through
// a mutex; the upstream socket has a single writer.
type pair struct {
	client   *websocket.Conn
	upstream *websocket.Conn

	clientMu sync.Mutex
	once     sync.Once
	done     chan struct{}
}

// teardown closes both legs. Whichever side fails first brings the other
// down with it; there is no reconnect.
func (p *pair) teardown() {
	p.once.Do(func() {
		close(p.done)
		p.client.Close()
		p.upstream.Close()
	})
}

func (p *pair) writeClient(messageType int, data []byte) error {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if err := p.client.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return p.client.WriteMessage(messageType, data)
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	client, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	log.Printf("Browser connected to voice relay")

	upstream, _, err := s.dialer.Dial(s.upstreamURL, nil)

	if err != nil {
		log.Printf("Failed to reach STT backend at %s: %v", s.upstreamURL, err)

		client.SetWriteDeadline(time.Now().Add(writeWait))
		client.WriteJSON(map[string]string{
			"type":    "error",
			"message": "STT backend error",
		})
		client.Close()
		return
	}

	p := &pair{
		client:   client,
		upstream: upstream,
		done:     make(chan struct{}),
	}

	client.SetReadDeadline(time.Now().Add(pongWait))
	client.SetPongHandler(func(string) error {
		return client.SetReadDeadline(time.Now().Add(pongWait))
	})

	go p.pingClient()
	go p.pumpToClient()

	p.pumpToUpstream()
}

// pumpToUpstream forwards browser frames (JSON control and binary audio) to
// the STT backend, preserving the frame type.
func (p *pair) pumpToUpstream() {
	defer p.teardown()

	for {
		messageType, data, err := p.client.ReadMessage()
		if err != nil {
			log.Printf("Browser connection closed: %v", err)
			return
		}

		// Any client traffic counts as liveness
		p.client.SetReadDeadline(time.Now().Add(pongWait))

		if err := p.upstream.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}

		if err := p.upstream.WriteMessage(messageType, data); err != nil {
			log.Printf("Failed to forward frame to STT backend: %v", err)
			return
		}
	}
}

// pumpToClient forwards STT status frames back to the originating browser.
func (p *pair) pumpToClient() {
	defer p.teardown()

	for {
		messageType, data, err := p.upstream.ReadMessage()
		if err != nil {
			log.Printf("STT backend connection closed: %v", err)
			return
		}

		if err := p.writeClient(messageType, data); err != nil {
			log.Printf("Failed to forward frame to browser: %v", err)
			return
		}
	}
}

func (p *pair) pingClient() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.writeClient(websocket.PingMessage, nil); err != nil {
				p.teardown()
				return
			}
		case <-p.done:
			return
		}
	}
}
