package moderation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

const (
	warnDMColor = 0xFFA500

	// messageLimit is Discord's cap on a message's content
	messageLimit = 2000

	// DefaultMaxTempDuration bounds tempban and temprole when no limit is configured
	DefaultMaxTempDuration = 365 * 24 * time.Hour
)

// Reply is what the invoker gets back
type Reply struct {
	Content   string
	Ephemeral bool
}

// Options tune a Dispatcher
type Options struct {
	// MaxTempDuration bounds tempban and temprole spans
	MaxTempDuration time.Duration
	// Ephemeral decides the visibility of successful replies per command.
	// Rejections are always ephemeral.
	Ephemeral func(Kind) bool
}

// Dispatcher executes moderation commands. Ledger and log channel writes go
// through a single lock so concurrent invocations never lose an update.
type Dispatcher struct {
	store     store.Store
	session   Session
	audit     *AuditLogger
	scheduler *Scheduler

	maxTemp   time.Duration
	ephemeral func(Kind) bool
	now       func() time.Time

	mu sync.Mutex
}

// NewDispatcher wires a Dispatcher
func NewDispatcher(st store.Store, s Session, audit *AuditLogger, scheduler *Scheduler, opts Options) *Dispatcher {
	d := &Dispatcher{
		store:     st,
		session:   s,
		audit:     audit,
		scheduler: scheduler,
		maxTemp:   opts.MaxTempDuration,
		ephemeral: opts.Ephemeral,
		now:       time.Now,
	}
	if d.maxTemp <= 0 {
		d.maxTemp = DefaultMaxTempDuration
	}
	if d.ephemeral == nil {
		d.ephemeral = func(Kind) bool { return false }
	}
	if d.audit == nil {
		d.audit = NewAuditLogger(st, s, nil)
	}
	return d
}

// Handle validates inv and executes it. Validation and permission failures
// come back as an ephemeral Reply with a nil error and leave no side effects.
// A non-nil error means the command failed in a way the invoker should only
// see as a generic failure, such as a storage write error.
func (d *Dispatcher) Handle(ctx context.Context, inv Invocation) (Reply, error) {
	if inv.Command == nil {
		return Reply{}, fmt.Errorf("invocation without a command")
	}

	content, err := d.dispatch(ctx, inv)
	if rej, ok := IsRejection(err); ok {
		return Reply{Content: rej.Message, Ephemeral: true}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("%s: %w", inv.Command.Kind(), err)
	}
	return Reply{Content: content, Ephemeral: d.ephemeral(inv.Command.Kind())}, nil
}

// Precheck runs the checks Handle starts with, without side effects. It
// returns the rejection reply and false when inv would be rejected. Otherwise
// the Reply only carries the visibility Handle will use.
func (d *Dispatcher) Precheck(inv Invocation) (Reply, bool) {
	if inv.Command == nil {
		return Reply{}, true
	}
	if err := d.validate(inv); err != nil {
		if rej, ok := IsRejection(err); ok {
			return Reply{Content: rej.Message, Ephemeral: true}, false
		}
	}
	return Reply{Ephemeral: d.ephemeral(inv.Command.Kind())}, true
}

func (d *Dispatcher) dispatch(ctx context.Context, inv Invocation) (string, error) {
	if err := d.validate(inv); err != nil {
		return "", err
	}

	switch c := inv.Command.(type) {
	case Warn:
		return d.warn(ctx, inv, c)
	case Warnings:
		return d.warnings(ctx, c)
	case DelWarn:
		return d.delWarn(ctx, inv, c)
	case Logs:
		return d.logs(ctx, c)
	case Nickname:
		return d.nickname(ctx, inv, c)
	case Purge:
		return d.purge(ctx, inv, c)
	case Kick:
		return d.kick(ctx, inv, c)
	case Ban:
		return d.ban(ctx, inv, c)
	case TempBan:
		return d.tempBan(ctx, inv, c)
	case TempRole:
		return d.tempRole(ctx, inv, c)
	default:
		return "", fmt.Errorf("unhandled command %T", c)
	}
}

// validate checks everything that can be checked before touching Discord
func (d *Dispatcher) validate(inv Invocation) error {
	switch c := inv.Command.(type) {
	case Warn:
		if err := requireUser(c.User); err != nil {
			return err
		}
		if strings.TrimSpace(c.Reason) == "" {
			return errEmptyReason
		}
	case Warnings:
		return requireUser(c.User)
	case DelWarn:
		return requireUser(c.User)
	case Nickname:
		if err := requireUser(c.User); err != nil {
			return err
		}
		if strings.TrimSpace(c.Nickname) == "" {
			return errEmptyNickname
		}
	case Purge:
		if inv.Permissions&discordgo.PermissionManageMessages == 0 {
			return errMissingPermissions
		}
		if c.Amount < 1 || c.Amount > 100 {
			return errPurgeRange
		}
	case Kick:
		return requireUser(c.User)
	case Ban:
		return requireUser(c.User)
	case TempBan:
		if err := requireUser(c.User); err != nil {
			return err
		}
		_, err := c.Span.Duration(d.maxTemp)
		return err
	case TempRole:
		if err := requireUser(c.User); err != nil {
			return err
		}
		if c.Role == nil || c.Role.ID == "" {
			return rejectf("❌ Missing required option `role`.")
		}
		_, err := d.roleDuration(c.Span)
		return err
	}
	return nil
}

func requireUser(u *discordgo.User) error {
	if u == nil || u.ID == "" {
		return rejectf("❌ Missing required option `user`.")
	}
	return nil
}

func mention(u *discordgo.User) string {
	return "<@" + u.ID + ">"
}

func (d *Dispatcher) warn(ctx context.Context, inv Invocation, c Warn) (string, error) {
	ts := FormatTime(d.now())

	d.mu.Lock()
	ledger := d.store.LoadLedger(ctx)
	ledger.Add(c.User.ID, models.Warning{Reason: c.Reason, Time: ts})
	err := d.store.SaveLedger(ctx, ledger)
	d.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("save ledger: %w", err)
	}

	d.audit.Record(ctx, Entry{Action: string(KindWarn), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: c.Reason, Time: ts})
	d.notifyWarned(inv, c, ts)

	return fmt.Sprintf("%s has been warned for: **%s**", mention(c.User), c.Reason), nil
}

// notifyWarned DMs the warned user. Users with closed DMs are only logged.
func (d *Dispatcher) notifyWarned(inv Invocation, c Warn, ts string) {
	server := inv.GuildName
	if server == "" {
		server = inv.GuildID
	}

	dm, err := d.session.UserChannelCreate(c.User.ID)
	if err == nil {
		_, err = d.session.ChannelMessageSendEmbed(dm.ID, &discordgo.MessageEmbed{
			Color: warnDMColor,
			Title: "⚠️ Warning Notice",
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Server", Value: server, Inline: true},
				{Name: "Reason", Value: c.Reason},
				{Name: "Time", Value: ts},
			},
		})
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not DM %s: %v", UserTag(c.User), err), "Moderation")
	}
}

func (d *Dispatcher) warnings(ctx context.Context, c Warnings) (string, error) {
	warns := d.store.LoadLedger(ctx).Warnings(c.User.ID)
	if len(warns) == 0 {
		return fmt.Sprintf("%s has no warnings.", mention(c.User)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s has the following warnings:", mention(c.User))
	for i, w := range warns {
		fmt.Fprintf(&b, "\n**#%d:** %s (%s)", i+1, w.Reason, w.Time)
	}
	return truncate(b.String(), messageLimit), nil
}

func (d *Dispatcher) delWarn(ctx context.Context, inv Invocation, c DelWarn) (string, error) {
	d.mu.Lock()
	ledger := d.store.LoadLedger(ctx)
	if _, ok := ledger.PopLatest(c.User.ID); !ok {
		d.mu.Unlock()
		return fmt.Sprintf("%s has no warnings.", mention(c.User)), nil
	}
	err := d.store.SaveLedger(ctx, ledger)
	d.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("save ledger: %w", err)
	}

	d.audit.Record(ctx, Entry{Action: string(KindDelWarn), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: "Removed last warning", Time: FormatTime(d.now())})
	return fmt.Sprintf("Last warning removed for %s.", mention(c.User)), nil
}

func (d *Dispatcher) logs(ctx context.Context, c Logs) (string, error) {
	if c.Channel == nil || c.Channel.ID == "" {
		if current, ok := d.store.LoadLogChannel(ctx); ok {
			return fmt.Sprintf("📝 Current log channel: <#%s>", current), nil
		}
		return "⚠️ No log channel set.", nil
	}

	channel := c.Channel
	if !c.Resolved {
		fetched, err := d.session.Channel(channel.ID)
		if err != nil {
			logger.Warn(fmt.Sprintf("Could not fetch channel %s: %v", channel.ID, err), "Moderation")
			return "", rejectf("❌ Could not find that channel.")
		}
		channel = fetched
	}
	if channel.Type != discordgo.ChannelTypeGuildText {
		return "", errNotTextChannel
	}

	d.mu.Lock()
	err := d.store.SaveLogChannel(ctx, channel.ID)
	d.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("save log channel: %w", err)
	}
	return fmt.Sprintf("✅ Log channel set to <#%s>", channel.ID), nil
}

func (d *Dispatcher) nickname(ctx context.Context, inv Invocation, c Nickname) (string, error) {
	if err := d.session.GuildMemberNickname(inv.GuildID, c.User.ID, c.Nickname); err != nil {
		logger.Warn(fmt.Sprintf("Nickname change for %s failed: %v", c.User.ID, err), "Moderation")
		return fmt.Sprintf("Failed to change nickname for %s.", mention(c.User)), nil
	}

	d.audit.Record(ctx, Entry{Action: string(KindNickname), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: c.Nickname, Time: FormatTime(d.now())})
	return fmt.Sprintf("%s’s nickname has been changed to **%s**.", mention(c.User), c.Nickname), nil
}

func (d *Dispatcher) purge(ctx context.Context, inv Invocation, c Purge) (string, error) {
	now := d.now()

	msgs, err := d.session.ChannelMessages(inv.ChannelID, int(c.Amount), "", "", "")
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not fetch messages in %s: %v", inv.ChannelID, err), "Moderation")
		return "Failed to purge messages.", nil
	}

	ids := deletable(msgs, now)
	switch len(ids) {
	case 0:
	case 1:
		err = d.session.ChannelMessageDelete(inv.ChannelID, ids[0])
	default:
		err = d.session.ChannelMessagesBulkDelete(inv.ChannelID, ids)
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not delete messages in %s: %v", inv.ChannelID, err), "Moderation")
		return "Failed to purge messages.", nil
	}

	text, attachments := transcript(msgs)
	d.audit.RecordPurge(ctx, PurgeEntry{
		Staff:       inv.StaffLabel(),
		ChannelID:   inv.ChannelID,
		Count:       len(ids),
		Attachments: attachments,
		Transcript:  text,
		Time:        FormatTime(now),
	})

	return fmt.Sprintf("🧹 Deleted **%d** messages (%d attachments).", len(ids), attachments), nil
}

func (d *Dispatcher) kick(ctx context.Context, inv Invocation, c Kick) (string, error) {
	if err := d.session.GuildMemberDeleteWithReason(inv.GuildID, c.User.ID, c.Reason); err != nil {
		logger.Warn(fmt.Sprintf("Kick of %s failed: %v", c.User.ID, err), "Moderation")
		return fmt.Sprintf("Failed to kick %s.", mention(c.User)), nil
	}

	d.audit.Record(ctx, Entry{Action: string(KindKick), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: c.Reason, Time: FormatTime(d.now())})
	return fmt.Sprintf("👢 %s has been kicked.", mention(c.User)), nil
}

func (d *Dispatcher) ban(ctx context.Context, inv Invocation, c Ban) (string, error) {
	if err := d.session.GuildBanCreateWithReason(inv.GuildID, c.User.ID, c.Reason, 0); err != nil {
		logger.Warn(fmt.Sprintf("Ban of %s failed: %v", c.User.ID, err), "Moderation")
		return fmt.Sprintf("Failed to ban %s.", mention(c.User)), nil
	}

	d.audit.Record(ctx, Entry{Action: string(KindBan), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: c.Reason, Time: FormatTime(d.now())})
	return fmt.Sprintf("🔨 %s has been banned.", mention(c.User)), nil
}

func (d *Dispatcher) tempBan(ctx context.Context, inv Invocation, c TempBan) (string, error) {
	dur, err := c.Span.Duration(d.maxTemp)
	if err != nil {
		return "", err
	}
	now := d.now()
	reason := "Temp ban for " + c.Span.String()

	if err := d.session.GuildBanCreateWithReason(inv.GuildID, c.User.ID, reason, 0); err != nil {
		logger.Warn(fmt.Sprintf("Temp ban of %s failed: %v", c.User.ID, err), "Moderation")
		return fmt.Sprintf("Failed to temp-ban %s.", mention(c.User)), nil
	}

	reply := fmt.Sprintf("%s has been temporarily banned for **%s**.", mention(c.User), c.Span)
	reply += d.scheduleReversal(ctx, models.Reversal{
		Kind:    models.ReversalUnban,
		GuildID: inv.GuildID,
		UserID:  c.User.ID,
		DueAt:   now.Add(dur),
		Reason:  reason,
	})

	d.audit.Record(ctx, Entry{Action: string(KindTempBan), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: c.Span.String(), Time: FormatTime(now)})
	return reply, nil
}

// roleDuration is Span.Duration with temprole's wording for a bad unit
func (d *Dispatcher) roleDuration(s Span) (time.Duration, error) {
	dur, err := s.Duration(d.maxTemp)
	if err == errInvalidUnit {
		return 0, errInvalidTimeUnit
	}
	return dur, err
}

func (d *Dispatcher) tempRole(ctx context.Context, inv Invocation, c TempRole) (string, error) {
	dur, err := d.roleDuration(c.Span)
	if err != nil {
		return "", err
	}
	now := d.now()
	roleName := c.Role.Name

	if err := d.session.GuildMemberRoleAdd(inv.GuildID, c.User.ID, c.Role.ID); err != nil {
		logger.Warn(fmt.Sprintf("Adding role %s to %s failed: %v", c.Role.ID, c.User.ID, err), "Moderation")
		return fmt.Sprintf("Failed to assign %s to %s.", roleName, mention(c.User)), nil
	}

	reply := fmt.Sprintf("%s has been given the **%s** role for **%s**.", mention(c.User), roleName, c.Span)
	reply += d.scheduleReversal(ctx, models.Reversal{
		Kind:    models.ReversalRemoveRole,
		GuildID: inv.GuildID,
		UserID:  c.User.ID,
		RoleID:  c.Role.ID,
		DueAt:   now.Add(dur),
		Reason:  fmt.Sprintf("%s for %s", roleName, c.Span),
	})

	d.audit.Record(ctx, Entry{Action: string(KindTempRole), UserID: c.User.ID, Staff: inv.StaffLabel(), Reason: fmt.Sprintf("%s for %s", roleName, c.Span), Time: FormatTime(now)})
	return reply, nil
}

// scheduleReversal arms r and returns a note for the reply when it could not
// be persisted. The action itself already happened, so this is not a failure.
func (d *Dispatcher) scheduleReversal(ctx context.Context, r models.Reversal) string {
	if d.scheduler == nil {
		logger.Error(fmt.Sprintf("No scheduler configured; %s of %s will not be reversed", r.Kind, r.UserID), "Moderation")
		return "\n⚠️ This will not be undone automatically."
	}
	if _, err := d.scheduler.Schedule(ctx, r); err != nil {
		logger.Error(fmt.Sprintf("Could not persist %s of %s: %v", r.Kind, r.UserID, err), "Moderation")
		return "\n⚠️ This will not be undone if the bot restarts before it is due."
	}
	return ""
}
