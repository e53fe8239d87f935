package dispatch

import (
	"strings"

	"chat-core/domain"
)

// MentionSigil prefixes a token referring to a registered user.
const MentionSigil = "@"

// Resolver turns @username tokens into user records.
type Resolver struct {
	users UserStore
}

func NewResolver(users UserStore) Resolver {
	return Resolver{users: users}
}

// Resolve scans the text for mention tokens and loads each one from the
// store. Results keep order of first appearance and duplicates are kept; a
// token that resolves to nobody is simply not a mention and is skipped.
func (r Resolver) Resolve(text string) []domain.User {
	var mentioned []domain.User
	for _, token := range strings.Fields(text) {
		if !strings.HasPrefix(token, MentionSigil) {
			continue
		}
		user, err := r.users.GetUser(strings.TrimPrefix(token, MentionSigil))
		if err != nil {
			continue
		}
		mentioned = append(mentioned, user)
	}
	return mentioned
}
