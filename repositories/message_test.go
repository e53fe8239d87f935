package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"chat-core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func messageAt(content string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		Content:   content,
		Author:    domain.UserSender{User: domain.User{Username: "alice", DisplayName: "Alice"}},
		Channel:   domain.DefaultChannel,
		CreatedAt: at,
		Type:      domain.TypeNormal,
	}
}

func TestMessageRepository_RoundTrip(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), testLogger())

	sent := messageAt("hello there", time.Now().UTC().Truncate(time.Second))
	req.NoError(repository.SaveMessage(sent))

	stored, err := repository.RecentMessages(10)
	req.NoError(err)
	req.Len(stored, 1)
	req.Equal(sent.ID, stored[0].ID)
	req.Equal("Alice", stored[0].Author)
	req.Equal("hello there", stored[0].Content)
	req.Equal(domain.TypeNormal, stored[0].Type)
}

func TestMessageRepository_RecentMessagesOldestFirst(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), testLogger())

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		msg := messageAt(fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Second))
		req.NoError(repository.SaveMessage(msg))
	}

	stored, err := repository.RecentMessages(10)
	req.NoError(err)
	req.Len(stored, 5)
	for i, message := range stored {
		req.Equal(fmt.Sprintf("message %d", i), message.Content)
	}
}

func TestMessageRepository_RecentMessagesKeepsNewestWhenOverLimit(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), testLogger())

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 8; i++ {
		msg := messageAt(fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Second))
		req.NoError(repository.SaveMessage(msg))
	}

	// The three newest survive, still in reading order.
	stored, err := repository.RecentMessages(3)
	req.NoError(err)
	req.Len(stored, 3)
	req.Equal("message 5", stored[0].Content)
	req.Equal("message 7", stored[2].Content)
}

func TestMessageRepository_RecentMessagesEmptyStore(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), testLogger())

	stored, err := repository.RecentMessages(10)
	req.NoError(err)
	req.Empty(stored)
}
