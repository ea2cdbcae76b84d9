package moderation

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// FromInteraction decodes a slash command interaction into an Invocation.
// Only the shape of the arguments is checked here; the Dispatcher validates
// their values before acting.
func FromInteraction(i *discordgo.Interaction) (Invocation, error) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return Invocation{}, fmt.Errorf("interaction %s is not a slash command", i.ID)
	}

	inv := Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	if i.Member != nil {
		inv.Staff = i.Member.User
		inv.Permissions = i.Member.Permissions
	} else {
		inv.Staff = i.User
	}
	if inv.GuildID == "" {
		return inv, rejectf("❌ This command can only be used in a server.")
	}

	cmd, err := Decode(i.ApplicationCommandData())
	if err != nil {
		return inv, err
	}
	inv.Command = cmd
	return inv, nil
}

// Decode turns slash command data into its typed Command
func Decode(data discordgo.ApplicationCommandInteractionData) (Command, error) {
	opts := options{data: data}

	var cmd Command
	switch Kind(data.Name) {
	case KindWarn:
		cmd = Warn{User: opts.user("user"), Reason: strings.TrimSpace(opts.str("reason"))}
	case KindWarnings:
		cmd = Warnings{User: opts.user("user")}
	case KindDelWarn:
		cmd = DelWarn{User: opts.user("user")}
	case KindLogs:
		ch, resolved := opts.channel("channel")
		cmd = Logs{Channel: ch, Resolved: resolved}
	case KindNickname:
		cmd = Nickname{User: opts.user("user"), Nickname: strings.TrimSpace(opts.str("nickname"))}
	case KindPurge:
		cmd = Purge{Amount: opts.integer("amount")}
	case KindKick:
		cmd = Kick{User: opts.user("user"), Reason: opts.optionalStr("reason")}
	case KindBan:
		cmd = Ban{User: opts.user("user"), Reason: opts.optionalStr("reason")}
	case KindTempBan:
		cmd = TempBan{User: opts.user("user"), Span: opts.span()}
	case KindTempRole:
		cmd = TempRole{User: opts.user("user"), Role: opts.role("role"), Span: opts.span()}
	default:
		return nil, fmt.Errorf("unknown command %q", data.Name)
	}

	if opts.err != nil {
		return nil, opts.err
	}
	return cmd, nil
}

// options reads typed option values, remembering the first missing one
type options struct {
	data discordgo.ApplicationCommandInteractionData
	err  error
}

func (o *options) find(name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range o.data.Options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func (o *options) require(name string, want discordgo.ApplicationCommandOptionType) *discordgo.ApplicationCommandInteractionDataOption {
	opt := o.find(name)
	if opt == nil || opt.Type != want || opt.Value == nil {
		if o.err == nil {
			o.err = rejectf("❌ Missing required option `%s`.", name)
		}
		return nil
	}
	return opt
}

func (o *options) id(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	id, _ := opt.Value.(string)
	return id
}

func (o *options) user(name string) *discordgo.User {
	opt := o.require(name, discordgo.ApplicationCommandOptionUser)
	if opt == nil {
		return nil
	}
	id := o.id(opt)
	if o.data.Resolved != nil {
		if u, ok := o.data.Resolved.Users[id]; ok {
			return u
		}
	}
	return &discordgo.User{ID: id}
}

func (o *options) role(name string) *discordgo.Role {
	opt := o.require(name, discordgo.ApplicationCommandOptionRole)
	if opt == nil {
		return nil
	}
	id := o.id(opt)
	if o.data.Resolved != nil {
		if r, ok := o.data.Resolved.Roles[id]; ok {
			return r
		}
	}
	return &discordgo.Role{ID: id, Name: id}
}

func (o *options) channel(name string) (*discordgo.Channel, bool) {
	opt := o.find(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionChannel {
		return nil, false
	}
	id := o.id(opt)
	if o.data.Resolved != nil {
		if ch, ok := o.data.Resolved.Channels[id]; ok {
			return ch, true
		}
	}
	return &discordgo.Channel{ID: id}, false
}

func (o *options) str(name string) string {
	opt := o.require(name, discordgo.ApplicationCommandOptionString)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

func (o *options) optionalStr(name string) string {
	opt := o.find(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return strings.TrimSpace(opt.StringValue())
}

func (o *options) integer(name string) int64 {
	opt := o.require(name, discordgo.ApplicationCommandOptionInteger)
	if opt == nil {
		return 0
	}
	return opt.IntValue()
}

func (o *options) span() Span {
	return Span{
		Amount: o.integer("time"),
		Unit:   Unit(o.str("unit")),
	}
}
