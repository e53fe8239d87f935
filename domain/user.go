// Package domain contains core concepts of the chat system.
// This file defines User entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// User is a registered account. Username is unique and immutable once
// created; the display name and permissions are mutable through moderation.
// ConnectionID is ephemeral and only set on the in-flight copy of a user
// while that user holds a live socket, never persisted.
type User struct {
	Username     string
	DisplayName  string
	Email        string
	PasswordHash string
	DOB          string
	Permissions  Permission
	CreatedAt    time.Time
	ConnectionID string
}

// Display returns the name shown in the channel, falling back to the
// username when no display name was chosen.
func (u User) Display() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
