package repositories

import (
	"context"
	"testing"
	"time"

	"chat-core/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, testLogger())
}

func indexedMessage(content string) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		Content:   content,
		Author:    domain.UserSender{User: domain.User{Username: "alice", DisplayName: "Alice"}},
		Channel:   domain.DefaultChannel,
		CreatedAt: time.Now().UTC(),
		Type:      domain.TypeNormal,
	}
}

func TestMessageIndex_SearchMatchesContent(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	wanted := indexedMessage("the badger digs a tunnel")
	req.NoError(index.Index(wanted))
	req.NoError(index.Index(indexedMessage("unrelated chatter")))

	hits, err := index.Search(context.Background(), "badger", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(wanted.ID.String(), hits[0].ID)
	req.Equal("Alice", hits[0].Author)
	req.Equal("the badger digs a tunnel", hits[0].Content)
	req.False(hits[0].At.IsZero())
}

func TestMessageIndex_SearchHonorsLimit(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	for i := 0; i < 5; i++ {
		req.NoError(index.Index(indexedMessage("tunnel talk")))
	}

	hits, err := index.Search(context.Background(), "tunnel", 3)
	req.NoError(err)
	req.Len(hits, 3)
}

func TestMessageIndex_SearchNoMatches(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	req.NoError(index.Index(indexedMessage("hello world")))

	hits, err := index.Search(context.Background(), "absent", 10)
	req.NoError(err)
	req.Empty(hits)
}

func TestMessageIndex_ReindexReplacesDocument(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)

	message := indexedMessage("first draft")
	req.NoError(index.Index(message))

	message.Content = "final wording"
	req.NoError(index.Index(message))

	hits, err := index.Search(context.Background(), "wording", 10)
	req.NoError(err)
	req.Len(hits, 1)

	stale, err := index.Search(context.Background(), "draft", 10)
	req.NoError(err)
	req.Empty(stale)
}
