package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"chat-core/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	SaveMessage(message domain.Message) error
	RecentMessages(limit int) ([]StoredMessage, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// StoredMessage is the persisted shape of a broadcast message. The author is
// the resolved display identity at send time, not a live user reference.
type StoredMessage struct {
	ID      uuid.UUID          `json:"id"`
	Channel string             `json:"channel"`
	Author  string             `json:"author"`
	Content string             `json:"content"`
	Type    domain.MessageType `json:"type"`
	At      time.Time          `json:"at"`
}

// messageKey formats "msg:{channel}:{timestamp_padded}:{uuid}" so that a
// prefix scan over one channel yields chronological order: the 19-digit
// zero padding makes nanosecond timestamps sort lexicographically and the
// UUID disambiguates two messages landing on the same nanosecond.
func messageKey(message StoredMessage) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		message.Channel,
		message.At.UnixNano(),
		message.ID,
	))
}

func (m MessageRepository) SaveMessage(message domain.Message) error {
	stored := fromMessage(message)
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(stored), data)
	})
}

// RecentMessages returns up to limit of the newest messages in the default
// channel, oldest first. The reverse iterator finds the newest entries and
// the result is flipped back into reading order.
func (m MessageRepository) RecentMessages(limit int) ([]StoredMessage, error) {
	var raw [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", domain.DefaultChannel))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past every possible timestamp, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(raw) == limit {
				m.log.Debug(fmt.Sprintf("Recent message limit of %d reached", limit))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte{}, value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]StoredMessage, 0, len(raw))
	for _, data := range raw {
		var stored StoredMessage
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, err
		}
		messages = append(messages, stored)
	}
	return lo.Reverse(messages), nil
}

func fromMessage(message domain.Message) StoredMessage {
	return StoredMessage{
		ID:      message.ID,
		Channel: message.Channel,
		Author:  message.Author.DisplayName(),
		Content: message.Content,
		Type:    message.Type,
		At:      message.CreatedAt,
	}
}
