// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with command routing and reply helpers.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	// GuildID is the only guild the commands are registered to
	GuildID   string
	StartTime time.Time
	mu        sync.RWMutex
	isReady   bool

	applicationID string
	registerOnce  sync.Once
	// register pushes the catalog, RegisterCommands unless replaced in tests
	register func(appID, guildID string) error
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token, guildID string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, guildID)
	})
	return client, err
}

// NewClient creates a new ExtendedClient. The gateway is not opened until Start.
func NewClient(token, guildID string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	// Purge transcripts need message content
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:  session,
		Commands: NewCommandCollection(),
		GuildID:  guildID,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)
	c.register = c.CommandHandler.RegisterCommands

	return c, nil
}

// Start registers the core handlers and opens the gateway. The command
// catalog is pushed to GuildID on the first ready of the process.
func (c *ExtendedClient) Start(applicationID string) error {
	c.applicationID = applicationID
	c.Session.AddHandler(c.onReady)
	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// onReady marks the client ready. Reconnects fire Ready again, but the
// catalog is only registered once.
func (c *ExtendedClient) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	c.isReady = true
	c.mu.Unlock()

	c.registerOnce.Do(func() {
		appID := c.applicationID
		if appID == "" && r.User != nil {
			appID = r.User.ID
		}
		if err := c.register(appID, c.GuildID); err != nil {
			logger.Error("Command registration failed: "+err.Error(), "Client")
		}
	})
}

// handleInteraction routes slash commands to their Command
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer errors.RecoverMiddleware()()

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	commandName := i.ApplicationCommandData().Name
	cmd, ok := c.Commands.Get(commandName)
	if !ok {
		logger.Warn("Command not found: "+commandName, "Client")
		return
	}

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
		Command:     cmd,
	}

	if err := cmd.Run(ctx); err != nil {
		errors.Track(err)
		logger.Error("Error executing command "+commandName+": "+err.Error(), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Uptime is how long the client has been started
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}
