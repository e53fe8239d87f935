package dispatch

import "chat-core/domain"

// Context aggregates everything resolved for one inbound event. It is built
// once per dispatch, handed to the matched command handler, and discarded as
// soon as the response is produced.
type Context struct {
	Message      domain.Message
	Sender       domain.User
	ConnectionID string
	Mentions     []domain.User
	IsCommand    bool
	Command      string

	// Collaborators handlers may reach back into.
	Users    UserStore
	Registry *Registry
}

// FirstMention returns the head of the mention list. Command handlers use it
// as their single argument.
func (c Context) FirstMention() (domain.User, bool) {
	if len(c.Mentions) == 0 {
		return domain.User{}, false
	}
	return c.Mentions[0], true
}
