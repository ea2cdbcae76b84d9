// Package discord provides the command handler for registering commands.
package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler keeps the slash command catalog and syncs it with Discord
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a command to the catalog and routes it by name
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// ApplicationCommands returns the catalog as Discord application commands
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, len(ch.slashCommands))
	copy(out, ch.slashCommands)
	return out
}

// RegisterCommands replaces the guild's commands with the catalog
func (ch *CommandHandler) RegisterCommands(appID, guildID string) error {
	if guildID == "" {
		return fmt.Errorf("no guild configured for command registration")
	}

	logger.Info(fmt.Sprintf("🔄 Registering %d commands in guild %s...", len(ch.slashCommands), guildID), "CommandHandler")

	created, err := ch.client.Session.ApplicationCommandBulkOverwrite(appID, guildID, ch.slashCommands)
	if err != nil {
		return fmt.Errorf("bulk overwrite guild %s: %w", guildID, err)
	}

	logger.Success(fmt.Sprintf("✅ %d commands registered.", len(created)), "CommandHandler")
	return nil
}

// ListGuildCommands returns the commands Discord currently has for the guild
func (ch *CommandHandler) ListGuildCommands(appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(appID, guildID)
}

// UnregisterGuildCommands removes every command from the guild
func (ch *CommandHandler) UnregisterGuildCommands(appID, guildID string) error {
	commands, err := ch.ListGuildCommands(appID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Error deleting command "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success(fmt.Sprintf("Removed %d commands from guild %s.", len(commands), guildID), "CommandHandler")
	return nil
}
