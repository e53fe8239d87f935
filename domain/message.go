package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageType tags how a message should be rendered by clients.
type MessageType string

const (
	TypeNormal         MessageType = "message"
	TypeCommand        MessageType = "command"
	TypeError          MessageType = "error"
	TypeUserConnect    MessageType = "user_connect"
	TypeUserDisconnect MessageType = "user_disconnect"
)

// DefaultChannel is the single logical room every message lives in.
const DefaultChannel = "general"

// Message is an immutable chat event. Content reaching persistence is
// non-empty and at most the configured length limit; the dispatch pipeline
// enforces both before a message gets anywhere near a store.
type Message struct {
	ID        uuid.UUID
	Content   string
	Author    Sender
	Channel   string
	CreatedAt time.Time
	Type      MessageType
}

// NewMessage builds a message in the default channel, stamped now.
func NewMessage(content string, author Sender, kind MessageType) Message {
	return Message{
		ID:        uuid.New(),
		Content:   content,
		Author:    author,
		Channel:   DefaultChannel,
		CreatedAt: time.Now().UTC(),
		Type:      kind,
	}
}
