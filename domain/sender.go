package domain

// Sender is the author of a message: either a registered user or the
// system itself. The closed variant replaces ad hoc "user object or bare
// string" author fields with one DisplayName accessor.
type Sender interface {
	DisplayName() string
	sender()
}

// UserSender wraps a registered user acting as a message author.
type UserSender struct {
	User User
}

func (s UserSender) DisplayName() string { return s.User.Display() }
func (UserSender) sender()               {}

// SystemSender is a non-account author such as the server itself.
type SystemSender struct {
	Name string
}

func (s SystemSender) DisplayName() string { return s.Name }
func (SystemSender) sender()               {}

// ServerSender authors every notice and command result the server emits.
var ServerSender = SystemSender{Name: "Server"}
