package dispatch

import (
	"log/slog"

	"chat-core/domain"
)

// Channel is the transport boundary: emit to one connection or to all.
type Channel interface {
	EmitToOne(connectionID string, payload domain.Payload)
	EmitToAll(payload domain.Payload)
}

// MessageStore persists broadcast messages.
type MessageStore interface {
	SaveMessage(message domain.Message) error
}

// MessageIndexer feeds the full-text index. Optional.
type MessageIndexer interface {
	Index(message domain.Message) error
}

// ContentFilter censors user-authored content and tags its language. Optional.
type ContentFilter interface {
	Censor(text string) string
	Language(text string) string
}

// Deliverer applies the visibility rule to a response: ephemeral goes to the
// originating connection only and is never persisted; everything else is
// broadcast to the channel and persisted. Emission happens before
// persistence so a store failure cannot withhold an already-decided
// delivery.
type Deliverer struct {
	log      *slog.Logger
	channel  Channel
	messages MessageStore
	index    MessageIndexer
	filter   ContentFilter
}

func NewDeliverer(log *slog.Logger, channel Channel, messages MessageStore,
	index MessageIndexer, filter ContentFilter) *Deliverer {
	return &Deliverer{log: log, channel: channel, messages: messages, index: index, filter: filter}
}

// Deliver completes one dispatch. A nil response is a documented no-op.
func (d *Deliverer) Deliver(response *domain.Response) {
	if response == nil {
		return
	}
	message := response.Message

	if response.Ephemeral {
		d.channel.EmitToOne(response.ConnectionID, d.toPayload(message, true))
		return
	}

	if d.filter != nil && message.Type == domain.TypeNormal {
		message.Content = d.filter.Censor(message.Content)
	}

	d.channel.EmitToAll(d.toPayload(message, false))

	if err := d.messages.SaveMessage(message); err != nil {
		d.log.Error("Failed to persist message",
			"author", message.Author.DisplayName(), "error", err)
	}
	if d.index != nil {
		if err := d.index.Index(message); err != nil {
			d.log.Warn("Failed to index message", "error", err)
		}
	}
}

func (d *Deliverer) toPayload(message domain.Message, ephemeral bool) domain.Payload {
	payload := domain.Payload{
		Message:   message.Content,
		Author:    message.Author.DisplayName(),
		Timestamp: message.CreatedAt.Format("15:04:05"),
		Type:      message.Type,
		Ephemeral: ephemeral,
	}
	if d.filter != nil && message.Type == domain.TypeNormal {
		payload.Language = d.filter.Language(message.Content)
	}
	return payload
}
