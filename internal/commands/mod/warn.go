package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /warn command
func createWarnCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Warn a user",
		"mod",
		run,
	).WithOptions(
		userOption("User to warn"),
		stringOption("reason", "Reason for warning", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// createWarningsCommand creates the /warnings command
func createWarningsCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"warnings",
		"View a user's warnings",
		"mod",
		run,
	).WithOptions(
		userOption("User to view warnings for"),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// createDelWarnCommand creates the /delwarn command
func createDelWarnCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"delwarn",
		"Delete the most recent warning from a user",
		"mod",
		run,
	).WithOptions(
		userOption("User to delete warning from"),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}
