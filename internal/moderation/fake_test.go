package moderation

import (
	"errors"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

var errPlatform = errors.New("discord: 50013 missing permissions")

// fakeSession records every call and fails the ones named in fail
type fakeSession struct {
	mu sync.Mutex

	calls    []string
	embeds   map[string][]*discordgo.MessageEmbed
	channels map[string]*discordgo.Channel
	messages []*discordgo.Message
	deleted  []string
	fail     map[string]bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		embeds:   make(map[string][]*discordgo.MessageEmbed),
		channels: make(map[string]*discordgo.Channel),
		fail:     make(map[string]bool),
	}
}

func (f *fakeSession) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.fail[call] {
		return errPlatform
	}
	return nil
}

func (f *fakeSession) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeSession) sent(channelID string) []*discordgo.MessageEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embeds[channelID]
}

func (f *fakeSession) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if err := f.record("UserChannelCreate"); err != nil {
		return nil, err
	}
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *fakeSession) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if err := f.record("Channel"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("discord: 10003 unknown channel")
	}
	return ch, nil
}

func (f *fakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.record("ChannelMessageSendEmbed"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds[channelID] = append(f.embeds[channelID], embed)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelMessages(_ string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	if err := f.record("ChannelMessages"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.messages) {
		limit = len(f.messages)
	}
	return f.messages[:limit], nil
}

func (f *fakeSession) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	if err := f.record("ChannelMessageDelete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeSession) ChannelMessagesBulkDelete(_ string, messages []string, _ ...discordgo.RequestOption) error {
	if err := f.record("ChannelMessagesBulkDelete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messages...)
	return nil
}

func (f *fakeSession) GuildBanCreateWithReason(_, _, _ string, _ int, _ ...discordgo.RequestOption) error {
	return f.record("GuildBanCreateWithReason")
}

func (f *fakeSession) GuildBanDelete(_, _ string, _ ...discordgo.RequestOption) error {
	return f.record("GuildBanDelete")
}

func (f *fakeSession) GuildMemberDeleteWithReason(_, _, _ string, _ ...discordgo.RequestOption) error {
	return f.record("GuildMemberDeleteWithReason")
}

func (f *fakeSession) GuildMemberNickname(_, _, _ string, _ ...discordgo.RequestOption) error {
	return f.record("GuildMemberNickname")
}

func (f *fakeSession) GuildMemberRoleAdd(_, _, _ string, _ ...discordgo.RequestOption) error {
	return f.record("GuildMemberRoleAdd")
}

func (f *fakeSession) GuildMemberRoleRemove(_, _, _ string, _ ...discordgo.RequestOption) error {
	return f.record("GuildMemberRoleRemove")
}

// fakeTimer is armed by fakeClock and fired by hand
type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) armed() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

var testNow = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

type harness struct {
	store     *store.MemoryStore
	session   *fakeSession
	clock     *fakeClock
	scheduler *Scheduler
	dispatch  *Dispatcher
}

func newHarness() *harness {
	h := &harness{
		store:   store.NewMemoryStore(),
		session: newFakeSession(),
		clock:   &fakeClock{now: testNow},
	}
	h.scheduler = NewScheduler(h.store, h.session)
	h.scheduler.now = h.clock.Now
	h.scheduler.afterFunc = h.clock.AfterFunc

	h.dispatch = NewDispatcher(h.store, h.session, NewAuditLogger(h.store, h.session, nil), h.scheduler, Options{})
	h.dispatch.now = h.clock.Now
	return h
}

func staff() *discordgo.User {
	return &discordgo.User{ID: "900", Username: "mod"}
}

func target() *discordgo.User {
	return &discordgo.User{ID: "42", Username: "someone"}
}

func invoke(cmd Command) Invocation {
	return Invocation{
		GuildID:     "1430907724224266333",
		GuildName:   "Test Guild",
		ChannelID:   "777",
		Staff:       staff(),
		Permissions: discordgo.PermissionManageMessages | discordgo.PermissionBanMembers,
		Command:     cmd,
	}
}
