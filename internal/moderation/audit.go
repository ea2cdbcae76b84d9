package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

const (
	auditColor = 0x00AE86
	purgeColor = 0xFF9900

	// embedFieldLimit is Discord's cap on an embed field value
	embedFieldLimit = 1024

	// TimeLayout renders timestamps the way they are stored in the ledger
	TimeLayout = "1/2/2006, 3:04:05 PM"

	// AuditTopicPrefix prefixes the topic of every published audit entry
	AuditTopicPrefix = "modbot/audit/"
)

// Publisher fans audit entries out to an event bus
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Entry is one audited moderation action
type Entry struct {
	Action string `json:"action"`
	// UserID is empty when the action has no target user
	UserID string `json:"userId,omitempty"`
	Staff  string `json:"staff"`
	Reason string `json:"reason,omitempty"`
	Time   string `json:"time"`
}

// PurgeEntry is the audit record of a purge
type PurgeEntry struct {
	Staff       string `json:"staff"`
	ChannelID   string `json:"channelId"`
	Count       int    `json:"count"`
	Attachments int    `json:"attachments"`
	Transcript  string `json:"transcript"`
	Time        string `json:"time"`
}

// AuditLogger posts audit embeds to the configured log channel. Emission is
// best effort: failures are logged and never reach the caller.
type AuditLogger struct {
	store     store.Store
	session   Session
	publisher Publisher
}

// NewAuditLogger creates an AuditLogger. publisher may be nil.
func NewAuditLogger(st store.Store, s Session, publisher Publisher) *AuditLogger {
	return &AuditLogger{store: st, session: s, publisher: publisher}
}

// Record emits e to the log channel, if one is set
func (a *AuditLogger) Record(ctx context.Context, e Entry) {
	a.publish(e.Action, e)

	channelID, ok := a.store.LoadLogChannel(ctx)
	if !ok {
		return
	}

	user := "N/A"
	if e.UserID != "" {
		user = "<@" + e.UserID + ">"
	}
	reason := e.Reason
	if reason == "" {
		reason = "No reason provided"
	}

	a.send(channelID, &discordgo.MessageEmbed{
		Color: auditColor,
		Title: fmt.Sprintf("🪵 %s Logged", strings.ToUpper(e.Action)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: user, Inline: true},
			{Name: "Staff", Value: e.Staff, Inline: true},
			{Name: "Reason", Value: reason},
			{Name: "Time", Value: e.Time},
		},
	})
}

// RecordPurge emits the purge snapshot to the log channel, if one is set
func (a *AuditLogger) RecordPurge(ctx context.Context, e PurgeEntry) {
	a.publish(string(KindPurge), e)

	channelID, ok := a.store.LoadLogChannel(ctx)
	if !ok {
		return
	}

	messages := truncate(e.Transcript, embedFieldLimit)
	if messages == "" {
		messages = "*No readable messages*"
	}

	a.send(channelID, &discordgo.MessageEmbed{
		Color: purgeColor,
		Title: "🪵 PURGE Logged",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Staff", Value: e.Staff, Inline: true},
			{Name: "Count", Value: fmt.Sprint(e.Count), Inline: true},
			{Name: "Attachments", Value: fmt.Sprint(e.Attachments), Inline: true},
			{Name: "Channel", Value: "<#" + e.ChannelID + ">"},
			{Name: "Messages", Value: messages},
			{Name: "Time", Value: e.Time},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Snapshot of deleted messages"},
	})
}

func (a *AuditLogger) send(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := a.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Warn(fmt.Sprintf("Could not send audit entry to %s: %v", channelID, err), "Audit")
	}
}

func (a *AuditLogger) publish(action string, payload interface{}) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(AuditTopicPrefix+action, payload); err != nil {
		logger.Warn(fmt.Sprintf("Could not publish %s audit entry: %v", action, err), "Audit")
	}
}

// FormatTime renders t in the ledger's timestamp layout
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}
