// Package moderation implements the moderation commands: the warning ledger,
// the log channel, audit records and the durable reversal of temporary
// bans and role grants.
package moderation

import "github.com/bwmarrin/discordgo"

// Kind names a moderation command
type Kind string

const (
	KindWarn     Kind = "warn"
	KindWarnings Kind = "warnings"
	KindDelWarn  Kind = "delwarn"
	KindLogs     Kind = "logs"
	KindNickname Kind = "nickname"
	KindPurge    Kind = "purge"
	KindKick     Kind = "kick"
	KindBan      Kind = "ban"
	KindTempBan  Kind = "tempban"
	KindTempRole Kind = "temprole"
)

// Kinds lists every command in catalog order
var Kinds = []Kind{
	KindBan, KindDelWarn, KindLogs, KindNickname, KindPurge,
	KindTempBan, KindTempRole, KindWarn, KindWarnings, KindKick,
}

// Command is one decoded command with its typed arguments. The set of
// implementations is closed.
type Command interface {
	Kind() Kind
	sealed()
}

// Warn appends a warning to User's ledger
type Warn struct {
	User   *discordgo.User
	Reason string
}

// Warnings lists User's warnings
type Warnings struct {
	User *discordgo.User
}

// DelWarn removes User's most recent warning
type DelWarn struct {
	User *discordgo.User
}

// Logs sets the log channel, or reports it when Channel is nil
type Logs struct {
	Channel *discordgo.Channel
	// Resolved is false when only the channel id is known and its type must
	// be fetched before it can be validated
	Resolved bool
}

// Nickname renames User
type Nickname struct {
	User     *discordgo.User
	Nickname string
}

// Purge bulk deletes the most recent Amount messages of the invoking channel
type Purge struct {
	Amount int64
}

// Kick removes User from the guild
type Kick struct {
	User   *discordgo.User
	Reason string
}

// Ban bans User from the guild
type Ban struct {
	User   *discordgo.User
	Reason string
}

// TempBan bans User and schedules the unban
type TempBan struct {
	User *discordgo.User
	Span Span
}

// TempRole grants Role to User and schedules its removal
type TempRole struct {
	User *discordgo.User
	Role *discordgo.Role
	Span Span
}

func (Warn) Kind() Kind     { return KindWarn }
func (Warnings) Kind() Kind { return KindWarnings }
func (DelWarn) Kind() Kind  { return KindDelWarn }
func (Logs) Kind() Kind     { return KindLogs }
func (Nickname) Kind() Kind { return KindNickname }
func (Purge) Kind() Kind    { return KindPurge }
func (Kick) Kind() Kind     { return KindKick }
func (Ban) Kind() Kind      { return KindBan }
func (TempBan) Kind() Kind  { return KindTempBan }
func (TempRole) Kind() Kind { return KindTempRole }

func (Warn) sealed()     {}
func (Warnings) sealed() {}
func (DelWarn) sealed()  {}
func (Logs) sealed()     {}
func (Nickname) sealed() {}
func (Purge) sealed()    {}
func (Kick) sealed()     {}
func (Ban) sealed()      {}
func (TempBan) sealed()  {}
func (TempRole) sealed() {}

// Invocation is a command together with who ran it and where
type Invocation struct {
	GuildID   string
	GuildName string
	ChannelID string
	Staff     *discordgo.User
	// Permissions are the invoker's computed permissions in ChannelID
	Permissions int64
	Command     Command
}

// StaffLabel is how the invoker appears in audit records
func (inv Invocation) StaffLabel() string {
	if inv.Staff == nil {
		return "Unknown"
	}
	return UserTag(inv.Staff)
}

// UserTag is the name#discriminator of u, or the plain username for accounts
// on the unique username system
func UserTag(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
