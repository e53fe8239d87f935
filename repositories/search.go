package repositories

import (
	"context"
	"log/slog"
	"time"

	"chat-core/domain"

	"github.com/blugelabs/bluge"
)

type IMessageIndex interface {
	Index(message domain.Message) error
	Search(ctx context.Context, terms string, limit int) ([]SearchHit, error)
}

// MessageIndex maintains a Bluge full-text index over broadcast messages,
// alongside the Badger log. Badger stays the source of truth; the index only
// answers content queries.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) MessageIndex {
	return MessageIndex{writer: writer, log: log}
}

// SearchHit is one matched message.
type SearchHit struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

func (s MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewTextField("author", message.Author.DisplayName()).StoreValue()).
		AddField(bluge.NewDateTimeField("at", message.CreatedAt).StoreValue())
	return s.writer.Update(doc.ID(), doc)
}

// Search matches terms against message content, newest matches capped at limit.
func (s MessageIndex) Search(ctx context.Context, terms string, limit int) ([]SearchHit, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("content")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "author":
				hit.Author = string(value)
			case "content":
				hit.Content = string(value)
			case "at":
				if at, err := bluge.DecodeDateTime(value); err == nil {
					hit.At = at
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

var (
	_ IUserRepository    = UserRepository{}
	_ IMessageRepository = MessageRepository{}
	_ IMessageIndex      = MessageIndex{}
)
