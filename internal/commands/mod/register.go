// Package mod provides the moderation slash commands. Each command is
// declared in its own file; all of them share one run function that decodes
// the interaction and hands it to the moderation dispatcher.
package mod

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

const (
	commandTimeout = 10 * time.Second
	genericFailure = "❌ Something went wrong while running this command."
)

// Handler executes decoded invocations
type Handler interface {
	Handle(ctx context.Context, inv moderation.Invocation) (moderation.Reply, error)
	Precheck(inv moderation.Invocation) (moderation.Reply, bool)
}

// responder is the reply side of a command context
type responder interface {
	Defer(ephemeral bool) error
	Respond(content string, ephemeral bool) error
}

// RegisterModCommands registers the moderation catalog with the client
func RegisterModCommands(client *discord.ExtendedClient, h Handler) {
	for _, cmd := range Catalog(runWith(h)) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}

// Catalog returns the ten moderation commands, all executed by run
func Catalog(run discord.CommandRunFunc) []*discord.Command {
	return []*discord.Command{
		createBanCommand(run),
		createDelWarnCommand(run),
		createLogsCommand(run),
		createNicknameCommand(run),
		createPurgeCommand(run),
		createTempBanCommand(run),
		createTempRoleCommand(run),
		createWarnCommand(run),
		createWarningsCommand(run),
		createKickCommand(run),
	}
}

func runWith(h Handler) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		inv, err := moderation.FromInteraction(ctx.Interaction.Interaction)
		if rej, ok := moderation.IsRejection(err); ok {
			return ctx.ReplyEphemeral(rej.Message)
		}
		if err != nil {
			return err
		}
		if g := ctx.Guild(); g != nil {
			inv.GuildName = g.Name
		}

		deferReply := ctx.Command != nil && ctx.Command.DeferReply
		return execute(ctx, h, inv, deferReply)
	}
}

// execute runs inv and sends its reply. A deferred command is acknowledged
// first unless it is rejected outright, so rejections stay ephemeral.
func execute(r responder, h Handler, inv moderation.Invocation, deferReply bool) error {
	if deferReply {
		pre, ok := h.Precheck(inv)
		if !ok {
			return r.Respond(pre.Content, true)
		}
		if err := r.Defer(pre.Ephemeral); err != nil {
			return err
		}
	}

	c, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply, err := h.Handle(c, inv)
	if err != nil {
		if rerr := r.Respond(genericFailure, true); rerr != nil {
			logger.Warn("Could not send failure reply: "+rerr.Error(), "Mod")
		}
		return err
	}
	return r.Respond(reply.Content, reply.Ephemeral)
}
