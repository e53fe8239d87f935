// Package commands holds the built-in command set. The table is fixed at
// process start; cmd/server hands it to dispatch.NewRegistry and nothing
// registers anything afterwards.
package commands

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"chat-core/dispatch"
	"chat-core/domain"

	"github.com/samber/lo"
)

var bonkLines = []string{
	"%s bonks %s on the head",
	"%s breaks %s's kneecaps",
	"%s bonks %s's head into the ground",
	"%s bonks %s's head into the wall",
	"%s bonks %s's head into the ceiling",
	"%s bonks %s's head into the floor",
	"%s bonks %s's head into the table",
	"%s bonks %s's head into the chair",
	"%s bonks %s's head into the door",
	"%s bonks %s's head into the window",
	"%s bonks %s's head into the computer",
	"%s bonks %s into the sun",
}

var squiddyLines = []string{
	"%s summons Squidward: NOVEMBER 12th, 2036: THE HEAT DEATH OF THE UNIVERSE! %s, YOUR RECKONING WILL BEFALL YOU!",
	"%s plays the clarinet so badly that %s begs for the heat death of the universe",
}

var kwispyLines = []string{
	"%s sets %s on fire. Kwispy.",
	"%s flambes %s to a golden crisp",
	"%s roasts %s over an open flame",
	"%s reduces %s to a neat pile of ash",
	"%s lights %s up like a bonfire",
}

var chirpLines = []string{
	"chirp chirp, %s",
	"a flock of very loud birds descends on %s",
}

// Builtins returns the full built-in command table. The random source is
// injected so tests can fix the seed and assert the exact template chosen;
// it is guarded internally because handlers run concurrently across
// connections.
func Builtins(rng *rand.Rand) []dispatch.Command {
	p := &picker{rng: rng}
	return []dispatch.Command{
		{Name: "bonk", Description: "Bonk a mentioned user.", Run: flavored(p, bonkLines)},
		{Name: "squiddy", Description: "Unleash Squidward on a mentioned user.", Run: flavored(p, squiddyLines)},
		{Name: "kwispy", Description: "Set a mentioned user on fire.", Run: flavored(p, kwispyLines)},
		{Name: "chirp", Description: "Chirp at a mentioned user.", Run: chirp(p)},
		{Name: "help", Description: "List every available command.", Run: help},
		{Name: "ban", Description: "Strip every permission from a mentioned user.", Run: ban},
	}
}

type picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// pick chooses uniformly among the fixed templates.
func (p *picker) pick(lines []string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lines[p.rng.Intn(len(lines))]
}

// flavored builds a handler interpolating the acting and mentioned display
// names into one of the given templates. No mention, no response.
func flavored(p *picker, lines []string) dispatch.Handler {
	return func(ctx dispatch.Context) *domain.Response {
		target, ok := ctx.FirstMention()
		if !ok {
			return nil
		}
		content := fmt.Sprintf(p.pick(lines), ctx.Sender.Display(), target.Display())
		return domain.Broadcast(domain.NewMessage(content, domain.ServerSender, domain.TypeCommand))
	}
}

// chirp interpolates the mentioned user only.
func chirp(p *picker) dispatch.Handler {
	return func(ctx dispatch.Context) *domain.Response {
		target, ok := ctx.FirstMention()
		if !ok {
			return nil
		}
		content := fmt.Sprintf(p.pick(chirpLines), target.Display())
		return domain.Broadcast(domain.NewMessage(content, domain.ServerSender, domain.TypeCommand))
	}
}

// help lists every registered command privately to the caller.
func help(ctx dispatch.Context) *domain.Response {
	lines := lo.Map(ctx.Registry.All(), func(c dispatch.Command, _ int) string {
		return fmt.Sprintf("%s - %s", c.Name, c.Description)
	})
	return domain.Ephemeral(ctx.ConnectionID,
		domain.NewMessage(strings.Join(lines, "\n"), domain.ServerSender, domain.TypeCommand))
}

// ban zeroes the mentioned user's permissions and persists the change.
// Unlike the other precondition failures, a caller without the BAN
// capability gets an explicit denial instead of the generic failure: a
// privileged action deserves an explanation, an empty mention does not.
func ban(ctx dispatch.Context) *domain.Response {
	target, ok := ctx.FirstMention()
	if !ok {
		return nil
	}
	if !ctx.Sender.Permissions.Has(domain.PermBan) {
		return domain.Ephemeral(ctx.ConnectionID,
			domain.NewMessage("You do not have permission to ban users.",
				domain.ServerSender, domain.TypeError))
	}
	target.Permissions = domain.PermNone
	if err := ctx.Users.UpdateUser(target); err != nil {
		return nil
	}
	return domain.Broadcast(domain.NewMessage(
		fmt.Sprintf("%s has been banned.", target.Display()),
		domain.ServerSender, domain.TypeCommand))
}
