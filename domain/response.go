package domain

// Response is the single terminal outcome of one dispatch. An ephemeral
// response is delivered only to ConnectionID and never persisted; anything
// else is broadcast to every connection and persisted.
type Response struct {
	ConnectionID string
	Message      Message
	Ephemeral    bool
}

// Broadcast wraps a message destined for every connected client.
func Broadcast(m Message) *Response {
	return &Response{Message: m}
}

// Ephemeral wraps a message visible only to one connection.
func Ephemeral(connectionID string, m Message) *Response {
	return &Response{ConnectionID: connectionID, Message: m, Ephemeral: true}
}

// Payload is the wire shape a client receives for one message.
type Payload struct {
	Message   string      `json:"message"`
	Author    string      `json:"author"`
	Timestamp string      `json:"timestamp"`
	Type      MessageType `json:"type"`
	Ephemeral bool        `json:"ephemeral,omitempty"`
	Language  string      `json:"language,omitempty"`
}
