package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createPurgeCommand creates the /purge command. The 1-100 range is checked
// by the dispatcher so out-of-range values get the usual reply. Fetching and
// deleting can take a while, so the reply is deferred.
func createPurgeCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		"purge",
		"Delete multiple messages from a channel",
		"mod",
		run,
	).WithOptions(
		integerOption("amount", "Number of messages to delete (1–100)"),
	).WithUserPermissions(discordgo.PermissionManageMessages).WithDeferredReply()
}
