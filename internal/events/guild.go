package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(guildCreateHandler(client.GuildID))
	client.EventHandler.OnGuildBanRemove(guildBanRemoveHandler(client.GuildID))
}

// guildCreateHandler reports whether the moderated guild is reachable.
// Other guilds are only noted since no commands are registered there.
func guildCreateHandler(guildID string) discord.GuildCreateHandler {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.ID != guildID {
			logger.Warn(fmt.Sprintf("Present in unmanaged guild %s (%s)", g.Name, g.ID), "Guild")
			return
		}
		logger.Info(fmt.Sprintf("Moderating %s (%d members)", g.Name, g.MemberCount), "Guild")
	}
}

func guildBanRemoveHandler(guildID string) discord.GuildBanRemoveHandler {
	return func(s *discordgo.Session, b *discordgo.GuildBanRemove) {
		if b.GuildID != guildID || b.User == nil {
			return
		}
		logger.Info(fmt.Sprintf("%s was unbanned", b.User.ID), "Guild")
	}
}
