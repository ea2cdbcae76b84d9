package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /kick command
func createKickCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a user",
		"mod",
		run,
	).WithOptions(
		userOption("User to kick"),
		stringOption("reason", "Reason for kick", false),
	).WithUserPermissions(discordgo.PermissionKickMembers)
}
