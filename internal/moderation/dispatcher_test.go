package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func handle(t *testing.T, h *harness, cmd Command) Reply {
	t.Helper()
	reply, err := h.dispatch.Handle(context.Background(), invoke(cmd))
	if err != nil {
		t.Fatalf("Handle(%s) returned error: %v", cmd.Kind(), err)
	}
	return reply
}

func TestWarnThenWarnings(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, Warnings{User: target()})
	if reply.Content != "<@42> has no warnings." {
		t.Fatalf("warnings on a fresh ledger = %q", reply.Content)
	}

	reply = handle(t, h, Warn{User: target(), Reason: "spam"})
	if reply.Content != "<@42> has been warned for: **spam**" {
		t.Errorf("warn reply = %q", reply.Content)
	}

	warns := h.store.LoadLedger(context.Background()).Warnings("42")
	if len(warns) != 1 || warns[0].Reason != "spam" {
		t.Fatalf("ledger = %+v, want one warning for spam", warns)
	}
	if warns[0].Time != FormatTime(testNow) {
		t.Errorf("warning time = %q, want %q", warns[0].Time, FormatTime(testNow))
	}

	reply = handle(t, h, Warnings{User: target()})
	want := fmt.Sprintf("<@42> has the following warnings:\n**#1:** spam (%s)", FormatTime(testNow))
	if reply.Content != want {
		t.Errorf("warnings reply = %q, want %q", reply.Content, want)
	}
}

func TestWarningsFitInOneMessage(t *testing.T) {
	h := newHarness()
	ledger := models.Ledger{}
	for i := 0; i < 100; i++ {
		ledger.Add("42", models.Warning{Reason: strings.Repeat("x", 40), Time: FormatTime(testNow)})
	}
	if err := h.store.SaveLedger(context.Background(), ledger); err != nil {
		t.Fatal(err)
	}

	reply := handle(t, h, Warnings{User: target()})
	if len(reply.Content) > messageLimit {
		t.Errorf("warnings reply is %d bytes, want at most %d", len(reply.Content), messageLimit)
	}
	if !strings.HasPrefix(reply.Content, "<@42> has the following warnings:") {
		t.Errorf("warnings reply = %q", reply.Content[:40])
	}
}

func TestWarnSendsDM(t *testing.T) {
	h := newHarness()
	handle(t, h, Warn{User: target(), Reason: "spam"})

	dms := h.session.sent("dm-42")
	if len(dms) != 1 {
		t.Fatalf("sent %d DMs, want 1", len(dms))
	}
	if dms[0].Title != "⚠️ Warning Notice" || dms[0].Fields[0].Value != "Test Guild" {
		t.Errorf("DM embed = %+v", dms[0])
	}
}

func TestWarnSurvivesClosedDMs(t *testing.T) {
	h := newHarness()
	h.session.fail["UserChannelCreate"] = true

	reply := handle(t, h, Warn{User: target(), Reason: "spam"})
	if !strings.Contains(reply.Content, "has been warned") {
		t.Errorf("warn reply = %q", reply.Content)
	}
	if got := h.store.LoadLedger(context.Background()).Count("42"); got != 1 {
		t.Errorf("ledger count = %d, want 1", got)
	}
}

func TestWarnRequiresReason(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, Warn{User: target(), Reason: "   "})
	if reply.Content != errEmptyReason.Message || !reply.Ephemeral {
		t.Errorf("reply = %+v, want ephemeral empty reason rejection", reply)
	}
	if h.store.Writes() != 0 {
		t.Error("a rejected warn must not write the ledger")
	}
}

func TestWarnAudited(t *testing.T) {
	h := newHarness()
	if err := h.store.SaveLogChannel(context.Background(), "555"); err != nil {
		t.Fatal(err)
	}

	handle(t, h, Warn{User: target(), Reason: "spam"})

	logged := h.session.sent("555")
	if len(logged) != 1 {
		t.Fatalf("audit embeds = %d, want 1", len(logged))
	}
	if logged[0].Title != "🪵 WARN Logged" {
		t.Errorf("audit title = %q", logged[0].Title)
	}
	if logged[0].Fields[1].Value != "mod" {
		t.Errorf("audit staff = %q, want mod", logged[0].Fields[1].Value)
	}
}

func TestDelWarnRemovesNewest(t *testing.T) {
	h := newHarness()
	handle(t, h, Warn{User: target(), Reason: "first"})
	handle(t, h, Warn{User: target(), Reason: "second"})

	reply := handle(t, h, DelWarn{User: target()})
	if reply.Content != "Last warning removed for <@42>." {
		t.Errorf("delwarn reply = %q", reply.Content)
	}

	warns := h.store.LoadLedger(context.Background()).Warnings("42")
	if len(warns) != 1 || warns[0].Reason != "first" {
		t.Errorf("ledger after delwarn = %+v, want only first", warns)
	}
}

func TestDelWarnWithoutWarnings(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, DelWarn{User: target()})
	if reply.Content != "<@42> has no warnings." {
		t.Errorf("delwarn reply = %q", reply.Content)
	}
	if h.store.Writes() != 0 {
		t.Error("delwarn on an empty ledger must not write")
	}
}

func TestLogsSetAndReport(t *testing.T) {
	h := newHarness()

	if got := handle(t, h, Logs{}).Content; got != "⚠️ No log channel set." {
		t.Fatalf("logs with no pointer = %q", got)
	}

	text := &discordgo.Channel{ID: "555", Type: discordgo.ChannelTypeGuildText}
	if got := handle(t, h, Logs{Channel: text, Resolved: true}).Content; got != "✅ Log channel set to <#555>" {
		t.Errorf("logs set reply = %q", got)
	}

	if got := handle(t, h, Logs{}).Content; got != "📝 Current log channel: <#555>" {
		t.Errorf("logs report = %q", got)
	}
}

func TestLogsRejectsNonText(t *testing.T) {
	h := newHarness()
	h.session.channels["556"] = &discordgo.Channel{ID: "556", Type: discordgo.ChannelTypeGuildVoice}

	reply := handle(t, h, Logs{Channel: &discordgo.Channel{ID: "556"}})
	if reply.Content != errNotTextChannel.Message || !reply.Ephemeral {
		t.Errorf("reply = %+v, want text channel rejection", reply)
	}
	if _, ok := h.store.LoadLogChannel(context.Background()); ok {
		t.Error("a voice channel must not become the log channel")
	}
}

func TestLogsResolvesUnknownChannelType(t *testing.T) {
	h := newHarness()
	h.session.channels["557"] = &discordgo.Channel{ID: "557", Type: discordgo.ChannelTypeGuildText}

	handle(t, h, Logs{Channel: &discordgo.Channel{ID: "557"}})

	if id, ok := h.store.LoadLogChannel(context.Background()); !ok || id != "557" {
		t.Errorf("log channel = %q, %v; want 557", id, ok)
	}
}

func TestNickname(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, Nickname{User: target(), Nickname: "Calm"})
	if reply.Content != "<@42>’s nickname has been changed to **Calm**." {
		t.Errorf("nickname reply = %q", reply.Content)
	}

	h.session.fail["GuildMemberNickname"] = true
	reply = handle(t, h, Nickname{User: target(), Nickname: "Loud"})
	if reply.Content != "Failed to change nickname for <@42>." {
		t.Errorf("nickname failure reply = %q", reply.Content)
	}
}

func TestPurgeRejections(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		permissions int64
		want        string
	}{
		{"too many", 150, discordgo.PermissionManageMessages, errPurgeRange.Message},
		{"zero", 0, discordgo.PermissionManageMessages, errPurgeRange.Message},
		{"no permission", 50, 0, errMissingPermissions.Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			inv := invoke(Purge{Amount: tt.amount})
			inv.Permissions = tt.permissions

			reply, err := h.dispatch.Handle(context.Background(), inv)
			if err != nil {
				t.Fatalf("Handle() returned error: %v", err)
			}
			if reply.Content != tt.want || !reply.Ephemeral {
				t.Errorf("reply = %+v, want ephemeral %q", reply, tt.want)
			}
			if h.session.called("ChannelMessages") != 0 {
				t.Error("messages were fetched despite the rejection")
			}
			if len(h.session.deleted) != 0 {
				t.Error("messages were deleted despite the rejection")
			}
		})
	}
}

func TestPurgeDeletesRecentMessages(t *testing.T) {
	h := newHarness()
	h.session.messages = []*discordgo.Message{
		{ID: "3", Content: "newest", Author: target(), Timestamp: testNow.Add(-time.Minute)},
		{ID: "2", Author: target(), Timestamp: testNow.Add(-20 * 24 * time.Hour), Attachments: []*discordgo.MessageAttachment{{ID: "a"}}},
		{ID: "1", Content: "oldest", Author: staff(), Timestamp: testNow.Add(-2 * time.Minute)},
	}
	if err := h.store.SaveLogChannel(context.Background(), "555"); err != nil {
		t.Fatal(err)
	}

	reply := handle(t, h, Purge{Amount: 3})
	if reply.Content != "🧹 Deleted **2** messages (1 attachments)." {
		t.Errorf("purge reply = %q", reply.Content)
	}
	if h.session.called("ChannelMessagesBulkDelete") != 1 {
		t.Error("expected one bulk delete")
	}
	if len(h.session.deleted) != 2 {
		t.Errorf("deleted = %v, want the two recent messages", h.session.deleted)
	}

	logged := h.session.sent("555")
	if len(logged) != 1 || logged[0].Footer == nil || logged[0].Footer.Text != "Snapshot of deleted messages" {
		t.Fatalf("purge audit = %+v", logged)
	}
}

func TestPurgeSingleMessageUsesDelete(t *testing.T) {
	h := newHarness()
	h.session.messages = []*discordgo.Message{
		{ID: "1", Content: "hi", Author: target(), Timestamp: testNow.Add(-time.Second)},
	}

	handle(t, h, Purge{Amount: 1})

	if h.session.called("ChannelMessageDelete") != 1 || h.session.called("ChannelMessagesBulkDelete") != 0 {
		t.Errorf("calls = %v, want a single ChannelMessageDelete", h.session.calls)
	}
}

func TestKickAndBan(t *testing.T) {
	h := newHarness()

	if got := handle(t, h, Kick{User: target(), Reason: "spam"}).Content; got != "👢 <@42> has been kicked." {
		t.Errorf("kick reply = %q", got)
	}
	if got := handle(t, h, Ban{User: target()}).Content; got != "🔨 <@42> has been banned." {
		t.Errorf("ban reply = %q", got)
	}

	h.session.fail["GuildMemberDeleteWithReason"] = true
	if got := handle(t, h, Kick{User: target()}).Content; got != "Failed to kick <@42>." {
		t.Errorf("kick failure reply = %q", got)
	}
}

func TestTempBanSchedulesUnban(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, TempBan{User: target(), Span: Span{Amount: 10, Unit: UnitSeconds}})
	if reply.Content != "<@42> has been temporarily banned for **10s**." {
		t.Errorf("tempban reply = %q", reply.Content)
	}

	armed := h.clock.armed()
	if len(armed) != 1 {
		t.Fatalf("armed timers = %d, want 1", len(armed))
	}
	if armed[0].delay != 10000*time.Millisecond {
		t.Errorf("timer delay = %v, want 10s", armed[0].delay)
	}

	rows := h.store.LoadReversals(context.Background())
	if len(rows) != 1 {
		t.Fatalf("persisted reversals = %d, want 1", len(rows))
	}
	if rows[0].Kind != models.ReversalUnban || !rows[0].DueAt.Equal(testNow.Add(10*time.Second)) {
		t.Errorf("reversal = %+v", rows[0])
	}
}

func TestTempBanRejectsBadUnit(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, TempBan{User: target(), Span: Span{Amount: 1, Unit: "x"}})
	if reply.Content != errInvalidUnit.Message || !reply.Ephemeral {
		t.Errorf("reply = %+v, want invalid unit rejection", reply)
	}
	if h.session.called("GuildBanCreateWithReason") != 0 {
		t.Error("user was banned despite the invalid unit")
	}
	if len(h.clock.armed()) != 0 {
		t.Error("a reversal was scheduled despite the invalid unit")
	}
}

func TestTempBanRejectsOverlongSpan(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, TempBan{User: target(), Span: Span{Amount: 366, Unit: UnitDays}})
	if reply.Content != "Duration cannot be longer than 365 days." {
		t.Errorf("reply = %q", reply.Content)
	}
	if h.session.called("GuildBanCreateWithReason") != 0 {
		t.Error("user was banned despite the overlong span")
	}
}

func TestTempBanFailureSchedulesNothing(t *testing.T) {
	h := newHarness()
	h.session.fail["GuildBanCreateWithReason"] = true

	reply := handle(t, h, TempBan{User: target(), Span: Span{Amount: 1, Unit: UnitHours}})
	if reply.Content != "Failed to temp-ban <@42>." {
		t.Errorf("reply = %q", reply.Content)
	}
	if len(h.scheduler.Pending()) != 0 {
		t.Error("a reversal was scheduled for a failed ban")
	}
}

func TestTempBanRejectsUppercaseUnit(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, TempBan{User: target(), Span: Span{Amount: 1, Unit: "H"}})
	if reply.Content != errInvalidUnit.Message || !reply.Ephemeral {
		t.Errorf("reply = %+v, want invalid unit rejection", reply)
	}
	if h.session.called("GuildBanCreateWithReason") != 0 {
		t.Error("user was banned despite the invalid unit")
	}
	if len(h.scheduler.Pending()) != 0 {
		t.Error("a reversal was scheduled despite the invalid unit")
	}
}

func TestTempRoleRejectsBadUnit(t *testing.T) {
	h := newHarness()

	reply := handle(t, h, TempRole{User: target(), Role: &discordgo.Role{ID: "r1", Name: "Muted"}, Span: Span{Amount: 1, Unit: "m"}})
	if reply.Content != "Invalid time unit. Use `s`, `h`, or `d`." || !reply.Ephemeral {
		t.Errorf("reply = %+v, want invalid time unit rejection", reply)
	}
	if h.session.called("GuildMemberRoleAdd") != 0 {
		t.Error("role was added despite the invalid unit")
	}
}

func TestTempRoleSchedulesRemoval(t *testing.T) {
	h := newHarness()
	role := &discordgo.Role{ID: "r1", Name: "Muted"}

	reply := handle(t, h, TempRole{User: target(), Role: role, Span: Span{Amount: 2, Unit: UnitHours}})
	if reply.Content != "<@42> has been given the **Muted** role for **2h**." {
		t.Errorf("temprole reply = %q", reply.Content)
	}

	pending := h.scheduler.Pending()
	if len(pending) != 1 || pending[0].Kind != models.ReversalRemoveRole || pending[0].RoleID != "r1" {
		t.Fatalf("pending = %+v", pending)
	}
	if armed := h.clock.armed(); len(armed) != 1 || armed[0].delay != 2*time.Hour {
		t.Errorf("armed = %+v, want one 2h timer", armed)
	}
}

func TestTempRoleFailure(t *testing.T) {
	h := newHarness()
	h.session.fail["GuildMemberRoleAdd"] = true

	reply := handle(t, h, TempRole{User: target(), Role: &discordgo.Role{ID: "r1", Name: "Muted"}, Span: Span{Amount: 2, Unit: UnitHours}})
	if reply.Content != "Failed to assign Muted to <@42>." {
		t.Errorf("reply = %q", reply.Content)
	}
}

func TestStorageWriteFailure(t *testing.T) {
	h := newHarness()
	h.store.FailWrites(errors.New("disk full"))

	_, err := h.dispatch.Handle(context.Background(), invoke(Warn{User: target(), Reason: "spam"}))
	if err == nil {
		t.Fatal("expected the write failure to surface")
	}
	if len(h.session.sent("dm-42")) != 0 {
		t.Error("the user was notified of a warning that was never stored")
	}
}

func TestEphemeralPolicy(t *testing.T) {
	h := newHarness()
	h.dispatch.ephemeral = func(k Kind) bool { return k == KindWarnings }

	if !handle(t, h, Warnings{User: target()}).Ephemeral {
		t.Error("warnings should be ephemeral")
	}
	if handle(t, h, Warn{User: target(), Reason: "spam"}).Ephemeral {
		t.Error("warn should be public")
	}
}

func TestConcurrentWarnsAreNotLost(t *testing.T) {
	h := newHarness()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = h.dispatch.Handle(context.Background(), invoke(Warn{User: target(), Reason: fmt.Sprintf("r%d", i)}))
		}(i)
	}
	wg.Wait()

	if got := h.store.LoadLedger(context.Background()).Count("42"); got != 50 {
		t.Errorf("ledger count = %d, want 50", got)
	}
}

func TestPrecheck(t *testing.T) {
	h := newHarness()

	reply, ok := h.dispatch.Precheck(invoke(Purge{Amount: 150}))
	if ok || reply.Content != errPurgeRange.Message || !reply.Ephemeral {
		t.Errorf("Precheck(purge 150) = %+v, %v; want range rejection", reply, ok)
	}

	if _, ok := h.dispatch.Precheck(invoke(Purge{Amount: 5})); !ok {
		t.Error("Precheck(purge 5) should pass")
	}
	if len(h.session.calls) != 0 {
		t.Errorf("Precheck touched Discord: %v", h.session.calls)
	}
}
