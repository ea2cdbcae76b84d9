package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createNicknameCommand creates the /nickname command
func createNicknameCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"nickname",
		"Change a user's nickname",
		"mod",
		run,
	).WithOptions(
		userOption("User to change nickname"),
		stringOption("nickname", "New nickname", true),
	).WithUserPermissions(discordgo.PermissionManageNicknames)
}
