package services

import (
	"testing"

	"chat-core/dispatch"
	"chat-core/domain"
	"chat-core/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	one []domain.Payload
	all []domain.Payload
}

func (r *recordingChannel) EmitToOne(_ string, payload domain.Payload) {
	r.one = append(r.one, payload)
}

func (r *recordingChannel) EmitToAll(payload domain.Payload) {
	r.all = append(r.all, payload)
}

type recordingStore struct {
	saved []domain.Message
}

func (r *recordingStore) SaveMessage(message domain.Message) error {
	r.saved = append(r.saved, message)
	return nil
}

type stubUserStore struct {
	users map[string]domain.User
}

func (s stubUserStore) GetUser(username string) (domain.User, error) {
	user, ok := s.users[username]
	if !ok {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, nil
}

func (s stubUserStore) UpdateUser(user domain.User) error {
	s.users[user.Username] = user
	return nil
}

func newChatServiceRig(users ...domain.User) (*ChatService, *recordingChannel, *recordingStore) {
	log := logs.GetLoggerFromString("ERROR")
	channel := &recordingChannel{}
	store := &recordingStore{}
	deliverer := dispatch.NewDeliverer(log, channel, store, nil, nil)

	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	dispatcher := dispatch.NewDispatcher(log, stubUserStore{users: byName},
		dispatch.NewRegistry(), ':', 1000)

	return NewChatService(log, dispatcher, deliverer, nil, nil, 20, 20), channel, store
}

func TestChatService_AnnounceConnectBroadcastsWelcome(t *testing.T) {
	req := require.New(t)
	service, channel, store := newChatServiceRig()

	service.AnnounceConnect(domain.User{Username: "alice", DisplayName: "Alice"})

	req.Len(channel.all, 1)
	req.Empty(channel.one)
	req.Equal("Welcome to the chat, Alice!", channel.all[0].Message)
	req.Equal(domain.TypeUserConnect, channel.all[0].Type)
	req.Equal("Server", channel.all[0].Author)

	req.Len(store.saved, 1)
	req.Equal("Welcome to the chat, Alice!", store.saved[0].Content)
	req.Equal(domain.TypeUserConnect, store.saved[0].Type)
}

func TestChatService_AnnounceDisconnectUsesUsername(t *testing.T) {
	req := require.New(t)
	service, channel, store := newChatServiceRig()

	// The notice names the account, not the chosen display name.
	service.AnnounceDisconnect("bob")

	req.Len(channel.all, 1)
	req.Equal("bob has disconnected", channel.all[0].Message)
	req.Equal(domain.TypeUserDisconnect, channel.all[0].Type)
	req.Len(store.saved, 1)
	req.Equal(domain.TypeUserDisconnect, store.saved[0].Type)
}

func TestChatService_HandleMessageRunsThePipeline(t *testing.T) {
	req := require.New(t)
	service, channel, store := newChatServiceRig(
		domain.User{Username: "alice", Permissions: domain.DefaultPermissions})

	service.HandleMessage("c1", "alice", "hello everyone")

	req.Len(channel.all, 1)
	req.Equal("hello everyone", channel.all[0].Message)
	req.Len(store.saved, 1)
}
