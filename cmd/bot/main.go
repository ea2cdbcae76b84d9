// Package main is the entry point for the PancyMod Go moderation bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/internal/events"
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/store"
	"github.com/PancyStudios/PancyModGo/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Starting PancyMod Go %s (%s)...", config.Version, config.BuildTime), "Main")

	if cfg.BotToken == "" || cfg.GuildID == "" {
		logger.Critical("DISCORD_TOKEN and GUILD_ID are required", "Main")
		log.Close()
		os.Exit(1)
	}

	var (
		discordClient *discord.ExtendedClient
		scheduler     *moderation.Scheduler
	)
	errors.Init(cfg.ErrorWebhook, func() {
		if scheduler != nil {
			scheduler.Stop()
		}
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	st, closeStore := openStore(cfg)
	defer closeStore()

	var publisher moderation.Publisher
	if cfg.MQTTHost != "" {
		clientID := "pancymod"
		if !cfg.IsProd() {
			clientID = "pancymod_canary"
		}
		bus := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID)
		defer bus.Destroy()

		bus.On(moderation.WarningsTopic, moderation.WarningsRequest(st))
		publisher = bus
	}

	discordClient, err = discord.Init(cfg.BotToken, cfg.GuildID)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		log.Close()
		os.Exit(1)
	}

	scheduler = moderation.NewScheduler(st, discordClient.Session)
	defer scheduler.Stop()

	recoverCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if n := scheduler.Recover(recoverCtx); n > 0 {
		logger.Info(fmt.Sprintf("Re-armed %d pending reversals", n), "Main")
	}
	cancel()

	dispatcher := moderation.NewDispatcher(
		st,
		discordClient.Session,
		moderation.NewAuditLogger(st, discordClient.Session, publisher),
		scheduler,
		moderation.Options{
			MaxTempDuration: cfg.MaxTempDuration,
			Ephemeral: func(k moderation.Kind) bool {
				return cfg.IsEphemeral(string(k))
			},
		},
	)

	commands.RegisterAll(discordClient, dispatcher)
	events.RegisterAll(discordClient)

	webServer := web.Init(cfg.LogsWebhook)
	web.SetupRoutes(webServer, func(ctx context.Context) web.Status {
		_, logSet := st.LoadLogChannel(ctx)
		return web.Status{
			BotReady:         discordClient.IsReady(),
			Storage:          st.Name(),
			LogChannelSet:    logSet,
			PendingReversals: len(scheduler.Pending()),
			Uptime:           discordClient.Uptime().Round(time.Second).String(),
		}
	})
	webServer.StartAsync(cfg.Port)

	if err := discordClient.Start(cfg.ApplicationID); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		log.Close()
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Warn(fmt.Sprintf("Error closing Discord session: %v", err), "Main")
		}
	}()

	logger.Success("PancyMod Go started!", "Main")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down PancyMod Go...", "Main")
}

// openStore picks the storage backend. A backend that cannot be opened
// falls back to the next simpler one so the bot still starts.
func openStore(cfg *config.Config) (store.Store, func()) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; moderation state is lost on restart", "Main")
		return store.NewMemoryStore(), noop

	case config.StorageMongo:
		db := database.NewDatabase()
		if err := db.Connect(cfg.MongoDBURL, cfg.DBName); err != nil {
			logger.Error(fmt.Sprintf("Error connecting to MongoDB, falling back to files: %v", err), "Main")
			break
		}
		return database.NewMongoStore(db, cfg.GuildID), func() {
			if err := db.Disconnect(); err != nil {
				logger.Warn(fmt.Sprintf("Error disconnecting from MongoDB: %v", err), "Main")
			}
		}
	}

	fs, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Error(fmt.Sprintf("Data directory %s is unusable, falling back to memory: %v", cfg.DataDir, err), "Main")
		return store.NewMemoryStore(), noop
	}
	logger.Info(fmt.Sprintf("Storing moderation data in %s", cfg.DataDir), "Main")
	return fs, noop
}
