// Package dispatch is the message-dispatch and command-execution pipeline:
// it takes one inbound chat event, classifies it, resolves mentions, applies
// permission and length policy, executes the matched command, and produces
// exactly one outbound response (or one of the documented no-ops).
package dispatch

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chat-core/domain"
)

// UserStore is the slice of the store boundary the pipeline consumes. Users
// are re-fetched on every dispatch; nothing is cached in process.
type UserStore interface {
	GetUser(username string) (domain.User, error)
	UpdateUser(user domain.User) error
}

// commandFailed deliberately covers both "unknown command" and "known
// command whose precondition failed": internally different causes, one
// user-facing message.
const commandFailed = "Command failed."

type Dispatcher struct {
	log              *slog.Logger
	users            UserStore
	resolver         Resolver
	registry         *Registry
	prefix           rune
	maxContentLength int
}

func NewDispatcher(log *slog.Logger, users UserStore, registry *Registry,
	prefix rune, maxContentLength int) *Dispatcher {
	return &Dispatcher{
		log:              log,
		users:            users,
		resolver:         NewResolver(users),
		registry:         registry,
		prefix:           prefix,
		maxContentLength: maxContentLength,
	}
}

// Dispatch runs one inbound event to its terminal outcome. Every failure
// path surfaces as an ephemeral error response to the sender; the only
// silent exit is a sender that no longer resolves to a live user.
func (d *Dispatcher) Dispatch(connectionID, username, text string) *domain.Response {
	sender, err := d.users.GetUser(username)
	if err != nil {
		d.log.Debug("Dropping event from unresolvable sender", "username", username)
		return nil
	}
	sender.ConnectionID = connectionID

	if utf8.RuneCountInString(text) > d.maxContentLength {
		return d.reject(connectionID, fmt.Sprintf(
			"Your message was too long. Please keep your messages under %d characters.",
			d.maxContentLength))
	}

	ctx := Context{
		Message:      domain.NewMessage(text, domain.UserSender{User: sender}, domain.TypeNormal),
		Sender:       sender,
		ConnectionID: connectionID,
		Mentions:     d.resolver.Resolve(text),
		Users:        d.users,
		Registry:     d.registry,
	}

	if name, ok := d.commandName(text); ok {
		ctx.IsCommand = true
		ctx.Command = name
		return d.runCommand(ctx)
	}

	if !sender.Permissions.Has(domain.PermSend) {
		return d.reject(connectionID, "You do not have permission to send messages.")
	}
	return domain.Broadcast(ctx.Message)
}

func (d *Dispatcher) runCommand(ctx Context) *domain.Response {
	if !ctx.Sender.Permissions.Has(domain.PermCommands) {
		return d.reject(ctx.ConnectionID, "You do not have permission to send commands.")
	}

	command, ok := d.registry.Lookup(ctx.Command)
	if !ok {
		d.log.Debug("Unknown command", "name", ctx.Command, "by", ctx.Sender.Username)
		return d.reject(ctx.ConnectionID, commandFailed)
	}

	response := command.Run(ctx)
	if response == nil {
		d.log.Debug("Command precondition failed", "name", ctx.Command, "by", ctx.Sender.Username)
		return d.reject(ctx.ConnectionID, commandFailed)
	}
	return response
}

// commandName extracts the first whitespace-delimited token with the sigil
// stripped, when the text starts with the configured prefix character.
func (d *Dispatcher) commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, string(d.prefix)) {
		return "", false
	}
	first := strings.Fields(text)[0]
	return strings.TrimPrefix(first, string(d.prefix)), true
}

func (d *Dispatcher) reject(connectionID, reason string) *domain.Response {
	return domain.Ephemeral(connectionID,
		domain.NewMessage(reason, domain.ServerSender, domain.TypeError))
}
