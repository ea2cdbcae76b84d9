package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createLogsCommand creates the /logs command
func createLogsCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"logs",
		"Set or view the log channel",
		"mod",
		run,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Channel for logs",
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}
