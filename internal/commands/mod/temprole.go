package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createTempRoleCommand creates the /temprole command
func createTempRoleCommand(run discord.CommandRunFunc) *discord.Command {
	opts := []*discordgo.ApplicationCommandOption{
		userOption("User to assign role"),
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "Role to assign",
			Required:    true,
		},
	}

	return discord.NewCommand(
		"temprole",
		"Assign a role to a user temporarily",
		"mod",
		run,
	).WithOptions(
		append(opts, spanOptions("Time unit (s/h/d)")...)...,
	).WithUserPermissions(discordgo.PermissionManageRoles)
}
