package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createBanCommand creates the /ban command
func createBanCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Ban a user",
		"mod",
		run,
	).WithOptions(
		userOption("User to ban"),
		stringOption("reason", "Reason for ban", false),
	).WithUserPermissions(discordgo.PermissionBanMembers)
}

// createTempBanCommand creates the /tempban command
func createTempBanCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"tempban",
		"Temporarily ban a user",
		"mod",
		run,
	).WithOptions(
		append([]*discordgo.ApplicationCommandOption{userOption("User to ban")}, spanOptions("Time unit: s/h/d")...)...,
	).WithUserPermissions(discordgo.PermissionBanMembers)
}
