package dispatch

import "chat-core/domain"

// Handler executes one command against a resolved context. Returning nil
// means the command's precondition failed and the pipeline substitutes the
// generic failure response.
type Handler func(ctx Context) *domain.Response

// Command is a named, described, invokable unit.
type Command struct {
	Name        string
	Description string
	Run         Handler
}

// Registry is the immutable command table. It is built once at process
// start and injected into the dispatcher; there is no runtime registration
// and no package-level state.
type Registry struct {
	byName  map[string]Command
	ordered []Command
}

func NewRegistry(commands ...Command) *Registry {
	byName := make(map[string]Command, len(commands))
	for _, command := range commands {
		byName[command.Name] = command
	}
	return &Registry{byName: byName, ordered: commands}
}

func (r *Registry) Lookup(name string) (Command, bool) {
	command, ok := r.byName[name]
	return command, ok
}

// All enumerates commands in registration order, for help listings.
func (r *Registry) All() []Command {
	return r.ordered
}
