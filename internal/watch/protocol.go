package watch

import "encoding/json"

// Message is one server-to-viewer frame on the watch socket.
type Message struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Source   string          `json:"source,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    *ErrorPayload   `json:"error,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// WelcomePayload tells a new viewer what it is connected to.
type WelcomePayload struct {
	Source string `json:"source"`
	Seq    int64  `json:"seq"`
}

const (
	// Connection
	TypeWelcome = "welcome"

	// Document lifecycle
	TypeDocReload = "doc.reload"
	TypeDocError  = "doc.error"
)
