package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set up test environment variables
	os.Setenv("DISCORD_TOKEN", "test-token")
	os.Setenv("GUILD_ID", "1430907724224266333")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	defer func() {
		os.Unsetenv("DISCORD_TOKEN")
		os.Unsetenv("GUILD_ID")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
	}()

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.GuildID != "1430907724224266333" {
		t.Errorf("GuildID = %v, want %v", config.GuildID, "1430907724224266333")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"30", 30},
		{"", 365},
		{"abc", 365},
		{"-4", 365},
		{"0", 365},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			os.Setenv("TEST_INT", tt.raw)
			defer os.Unsetenv("TEST_INT")

			if got := getEnvInt("TEST_INT", 365); got != tt.want {
				t.Errorf("getEnvInt(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("enviroment")
}

func TestEphemeralCommands(t *testing.T) {
	os.Setenv("EPHEMERAL_COMMANDS", " Warnings, logs ,,")
	defer os.Unsetenv("EPHEMERAL_COMMANDS")

	resetForTesting()
	config, _ := Load()

	if len(config.EphemeralCommands) != 2 {
		t.Fatalf("EphemeralCommands = %v, want 2 entries", config.EphemeralCommands)
	}
	if !config.IsEphemeral("warnings") || !config.IsEphemeral("logs") {
		t.Error("warnings and logs should be ephemeral")
	}
	if config.IsEphemeral("warn") {
		t.Error("warn should not be ephemeral")
	}
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	// Clear all environment variables
	os.Unsetenv("DISCORD_TOKEN")
	os.Unsetenv("GUILD_ID")
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("mongodbUrl")
	os.Unsetenv("dbName")
	os.Unsetenv("MQTT_Host")
	os.Unsetenv("MQTT_Port")
	os.Unsetenv("PORT")
	os.Unsetenv("enviroment")
	os.Unsetenv("MAX_TEMP_DURATION")

	resetForTesting()
	config, _ := Load()

	// Check default values
	if config.StorageBackend != StorageFile {
		t.Errorf("StorageBackend default = %v, want %v", config.StorageBackend, StorageFile)
	}

	if config.DataDir != "." {
		t.Errorf("DataDir default = %v, want %v", config.DataDir, ".")
	}

	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}

	if config.MQTTHost != "" {
		t.Errorf("MQTTHost default = %v, want empty", config.MQTTHost)
	}

	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.Environment != "dev" {
		t.Errorf("Environment default = %v, want %v", config.Environment, "dev")
	}

	if config.MaxTempDuration != 365*24*time.Hour {
		t.Errorf("MaxTempDuration default = %v, want %v", config.MaxTempDuration, 365*24*time.Hour)
	}

	if len(config.EphemeralCommands) != 0 {
		t.Errorf("EphemeralCommands default = %v, want none", config.EphemeralCommands)
	}
}
