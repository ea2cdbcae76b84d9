package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.OnReady(onReady)
}

// onReady is called when the bot successfully connects to Discord
func onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Success(readyMessage(r), "Ready")
	logger.Info(fmt.Sprintf("📊 Connected to %d guilds", len(r.Guilds)), "Ready")

	if err := s.UpdateWatchStatus(0, "the server"); err != nil {
		logger.Error(fmt.Sprintf("Could not set status: %v", err), "Ready")
	}
}

func readyMessage(r *discordgo.Ready) string {
	return fmt.Sprintf("✅ Logged in as %s", moderation.UserTag(r.User))
}
