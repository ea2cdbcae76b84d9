// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted in STORAGE_BACKEND
const (
	StorageFile   = "file"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken      string
	GuildID       string
	ApplicationID string

	// Storage
	StorageBackend string
	DataDir        string
	MongoDBURL     string
	DBName         string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook string
	LogsWebhook  string

	// Moderation
	EphemeralCommands []string
	MaxTempDuration   time.Duration
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:      getEnv("DISCORD_TOKEN", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		ApplicationID: getEnv("APPLICATION_ID", ""),

		// Storage
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
		DataDir:        getEnv("DATA_DIR", "."),
		MongoDBURL:     getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:         getEnv("dbName", "PancyMod"),

		// MQTT (empty host disables the event bus)
		MQTTHost:     getEnv("MQTT_Host", ""),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		// Web Server
		Port: getEnv("PORT", "3000"),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Webhooks
		ErrorWebhook: getEnv("errorWebhook", ""),
		LogsWebhook:  getEnv("logsWebhook", ""),

		// Moderation
		EphemeralCommands: splitList(getEnv("EPHEMERAL_COMMANDS", "")),
		MaxTempDuration:   time.Duration(getEnvInt("MAX_TEMP_DURATION", 365)) * 24 * time.Hour,
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets a positive integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsEphemeral reports whether replies to the named command should only be
// visible to the invoker
func (c *Config) IsEphemeral(command string) bool {
	for _, name := range c.EphemeralCommands {
		if name == command {
			return true
		}
	}
	return false
}
