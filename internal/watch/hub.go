package watch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/svgjww/viewer/internal/document"
)

// Hub fans document reloads out to every connected viewer. It remembers the
// last message so a viewer that connects late starts from the current state.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client
	latest  *Message
	seq     int64
	source  string

	originPatterns []string
	register       chan *Client
	unregister     chan *Client
	done           chan struct{}
}

// NewHub creates a hub for the document named source. originPatterns is
// passed to the websocket handshake.
func NewHub(source string, originPatterns []string) *Hub {
	return &Hub{
		clients:        make(map[string]*Client),
		source:         source,
		originPatterns: originPatterns,
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
	}
}

// Run serves registrations until ctx ends, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for id, c := range h.clients {
			delete(h.clients, id)
			close(c.send)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

// Register adds client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ClientID] = client

	welcome, _ := json.Marshal(WelcomePayload{Source: h.source, Seq: h.seq})
	client.Send(&Message{Type: TypeWelcome, ClientID: client.ClientID, Payload: welcome})
	if h.latest != nil {
		client.Send(h.latest)
	}

	slog.Info("viewer connected", "client", client.ClientID, "viewers", len(h.clients))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ClientID]; !ok {
		return
	}
	delete(h.clients, client.ClientID)
	close(client.send)

	slog.Info("viewer disconnected", "client", client.ClientID, "viewers", len(h.clients))
}

// Publish numbers msg, stores it as the latest state and sends it to every
// viewer.
func (h *Hub) Publish(msg *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	out := *msg
	out.Seq = h.seq
	out.Source = h.source
	h.latest = &out

	slog.Info("broadcasting update", "type", out.Type, "seq", out.Seq, "viewers", len(h.clients))
	for _, c := range h.clients {
		c.Send(&out)
	}
}

// PublishDocument broadcasts a decoded-and-validated parser JSON document.
func (h *Hub) PublishDocument(data []byte) {
	h.Publish(&Message{Type: TypeDocReload, Payload: json.RawMessage(data)})
}

// PublishError broadcasts a load failure. Parser rejections carry their own
// readable message.
func (h *Hub) PublishError(err error) {
	msg := err.Error()
	var perr *document.ParseError
	if errors.As(err, &perr) {
		msg = perr.Message
	}
	h.Publish(&Message{Type: TypeDocError, Error: &ErrorPayload{Message: msg}})
}

// Latest returns the last published message, or nil.
func (h *Hub) Latest() *Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a watch socket.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  h.originPatterns,
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h, conn, uuid.New().String())
	if !h.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
