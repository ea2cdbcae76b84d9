package mod

import "github.com/bwmarrin/discordgo"

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func integerOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

// spanOptions are the time and unit options shared by tempban and temprole.
// The unit stays a free string; the dispatcher rejects anything but s, h and d.
func spanOptions(unitDescription string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		integerOption("time", "Duration"),
		stringOption("unit", unitDescription, true),
	}
}
