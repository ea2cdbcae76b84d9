// Package events provides the gateway event handlers of the bot.
package events

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registering events...", "Events")

	RegisterReadyEvent(client)
	RegisterGuildEvents(client)

	logger.Success("✅ Events registered", "Events")
}
