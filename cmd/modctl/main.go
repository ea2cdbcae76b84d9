// Package main provides modctl, the operator tool of the moderation bot.
//
// Usage:
//
//	modctl commands list    List the commands registered in the guild
//	modctl commands clean   Remove every command from the guild
//	modctl commands sync    Replace the guild's commands with the current catalog
//	modctl warnings --user <id>   Ask a running bot for a user's warnings over MQTT
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
)

var discordFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "token",
		Usage:    "The bot's token",
		EnvVars:  []string{"DISCORD_TOKEN"},
		Required: true,
	},
	&cli.StringFlag{
		Name:     "app-id",
		Usage:    "The bot's application ID",
		EnvVars:  []string{"APPLICATION_ID"},
		Required: true,
	},
	&cli.StringFlag{
		Name:     "guild",
		Usage:    "The moderated guild",
		EnvVars:  []string{"GUILD_ID"},
		Required: true,
	},
}

var app = &cli.App{
	Name:  "modctl",
	Usage: "Operate the moderation bot",

	Commands: []*cli.Command{
		{
			Name:  "commands",
			Usage: "Manage the guild's slash commands",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "List registered commands", Flags: discordFlags, Action: listCommands},
				{Name: "clean", Usage: "Remove all commands", Flags: discordFlags, Action: cleanCommands},
				{Name: "sync", Usage: "Register the current catalog", Flags: discordFlags, Action: syncCommands},
			},
		},
		{
			Name:   "warnings",
			Usage:  "Query a running bot for a user's warnings",
			Action: queryWarnings,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user", Usage: "User ID", Required: true},
				&cli.DurationFlag{Name: "timeout", Usage: "How long to wait for the bot", Value: 10 * time.Second},
			},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	if err := app.Run(os.Args); err != nil {
		logger.Error(err.Error(), "modctl")
		log.Close()
		os.Exit(1)
	}
}

// newClient builds a REST-only client with the catalog loaded
func newClient(c *cli.Context) (*discord.ExtendedClient, error) {
	client, err := discord.NewClient(c.String("token"), c.String("guild"))
	if err != nil {
		return nil, fmt.Errorf("create Discord client: %w", err)
	}
	for _, cmd := range mod.Catalog(nil) {
		client.CommandHandler.RegisterCommand(cmd)
	}
	return client, nil
}

func listCommands(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	cmds, err := client.CommandHandler.ListGuildCommands(c.String("app-id"), client.GuildID)
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No commands registered", "modctl")
		return nil
	}
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "modctl")
	}
	return nil
}

func cleanCommands(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	return client.CommandHandler.UnregisterGuildCommands(c.String("app-id"), client.GuildID)
}

func syncCommands(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	return client.CommandHandler.RegisterCommands(c.String("app-id"), client.GuildID)
}

func queryWarnings(c *cli.Context) error {
	cfg := config.Get()
	if cfg.MQTTHost == "" {
		return cli.Exit("MQTT_Host is not configured", 1)
	}

	bus := mqtt.NewMqttCommunicator(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, "modctl")
	defer bus.Destroy()

	data, err := bus.Request(moderation.WarningsTopic, map[string]string{"userId": c.String("user")}, c.Duration("timeout"))
	if err != nil {
		return fmt.Errorf("query warnings: %w", err)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
