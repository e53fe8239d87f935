package services

import (
	"context"
	"fmt"
	"log/slog"

	"chat-core/dispatch"
	"chat-core/domain"
	"chat-core/repositories"
)

type IChatService interface {
	HandleMessage(connectionID, username, text string)
	AnnounceConnect(user domain.User)
	AnnounceDisconnect(username string)
	RecentMessages() ([]repositories.StoredMessage, error)
	Search(ctx context.Context, terms string) ([]repositories.SearchHit, error)
}

// ChatService fronts the dispatch pipeline for the transport: one call per
// inbound socket event, plus the connect/disconnect notices and the read
// paths the HTTP API serves.
type ChatService struct {
	log         *slog.Logger
	dispatcher  *dispatch.Dispatcher
	deliverer   *dispatch.Deliverer
	messages    repositories.IMessageRepository
	index       repositories.IMessageIndex
	recentLimit int
	searchLimit int
}

func NewChatService(log *slog.Logger, dispatcher *dispatch.Dispatcher,
	deliverer *dispatch.Deliverer, messages repositories.IMessageRepository,
	index repositories.IMessageIndex, recentLimit, searchLimit int) *ChatService {
	return &ChatService{
		log:         log,
		dispatcher:  dispatcher,
		deliverer:   deliverer,
		messages:    messages,
		index:       index,
		recentLimit: recentLimit,
		searchLimit: searchLimit,
	}
}

// HandleMessage runs one inbound event through the pipeline and delivers
// its single terminal response. Events from the same connection arrive here
// in order; interleaving only happens across connections.
func (s *ChatService) HandleMessage(connectionID, username, text string) {
	response := s.dispatcher.Dispatch(connectionID, username, text)
	s.deliverer.Deliver(response)
}

// AnnounceConnect broadcasts the welcome notice for a freshly authenticated
// connection.
func (s *ChatService) AnnounceConnect(user domain.User) {
	s.deliverer.Deliver(domain.Broadcast(domain.NewMessage(
		fmt.Sprintf("Welcome to the chat, %s!", user.Display()),
		domain.ServerSender, domain.TypeUserConnect)))
}

// AnnounceDisconnect broadcasts the departure notice under the account
// username, the same identity the session authenticated with.
func (s *ChatService) AnnounceDisconnect(username string) {
	s.deliverer.Deliver(domain.Broadcast(domain.NewMessage(
		fmt.Sprintf("%s has disconnected", username),
		domain.ServerSender, domain.TypeUserDisconnect)))
}

// RecentMessages returns the newest persisted messages, oldest first.
func (s *ChatService) RecentMessages() ([]repositories.StoredMessage, error) {
	return s.messages.RecentMessages(s.recentLimit)
}

// Search matches terms against persisted message content.
func (s *ChatService) Search(ctx context.Context, terms string) ([]repositories.SearchHit, error) {
	return s.index.Search(ctx, terms, s.searchLimit)
}
