// Package interactions routes Discord interaction events to the feature
// managers that registered for them.
package interactions

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/glowmart/discord-giveaway-bot/app/observability/attr"
)

// Handler processes one interaction event.
type Handler func(ctx context.Context, i *discordgo.InteractionCreate)

// Registry maps command names and component custom IDs to handlers. IDs
// ending in "|" are treated as prefixes, matching the custom-ID convention
// "prefix|identifier".
type Registry struct {
	logger   *slog.Logger
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger,
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler adds a handler for an exact command name or custom ID, or
// for a "prefix|" pattern.
func (r *Registry) RegisterHandler(id string, handler Handler) {
	r.handlers[id] = handler
}

// HandleInteraction dispatches an interaction event. Unknown interactions are
// logged and dropped.
func (r *Registry) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var id string
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		id = data.Name
		// Subcommands dispatch on "name subcommand" when a handler registered
		// for it, falling back to the bare command name.
		if len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
			scoped := data.Name + " " + data.Options[0].Name
			if handler, ok := r.handlers[scoped]; ok {
				handler(ctx, i)
				return
			}
		}
	case discordgo.InteractionMessageComponent:
		id = i.MessageComponentData().CustomID
	default:
		return
	}

	if handler, ok := r.handlers[id]; ok {
		handler(ctx, i)
		return
	}

	for key, handler := range r.handlers {
		if strings.HasSuffix(key, "|") && strings.HasPrefix(id, key) {
			handler(ctx, i)
			return
		}
	}

	r.logger.Debug("No handler registered for interaction", attr.String("interaction_id", id))
}
