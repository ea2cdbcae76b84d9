package moderation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/store"
	"github.com/google/uuid"
)

const reversalTimeout = 15 * time.Second

type timer interface {
	Stop() bool
}

// Scheduler runs reversals of temporary bans and role grants when they fall
// due. Every pending reversal is persisted, so Recover can re-arm them after
// a restart.
type Scheduler struct {
	store   store.Store
	session Session

	mu      sync.Mutex
	rows    map[string]models.Reversal
	timers  map[string]timer
	stopped bool

	now       func() time.Time
	afterFunc func(time.Duration, func()) timer
}

// NewScheduler creates a Scheduler backed by st that reverses actions through s
func NewScheduler(st store.Store, s Session) *Scheduler {
	return &Scheduler{
		store:   st,
		session: s,
		rows:    make(map[string]models.Reversal),
		timers:  make(map[string]timer),
		now:     time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Schedule persists r and arms its timer. The timer is armed even when the
// table cannot be saved; the returned error then means r will not survive a
// restart.
func (s *Scheduler) Schedule(ctx context.Context, r models.Reversal) (models.Reversal, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return r, fmt.Errorf("scheduler stopped")
	}

	s.rows[r.ID] = r
	s.arm(r)

	if err := s.store.SaveReversals(ctx, s.sortedRows()); err != nil {
		return r, fmt.Errorf("save reversal %s: %w", r.ID, err)
	}
	return r, nil
}

// Recover re-arms every persisted reversal. Overdue ones fire right away.
func (s *Scheduler) Recover(ctx context.Context) int {
	rows := s.store.LoadReversals(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		if _, ok := s.rows[r.ID]; ok {
			continue
		}
		s.rows[r.ID] = r
		s.arm(r)
	}
	return len(rows)
}

// Pending lists the armed reversals, soonest first
func (s *Scheduler) Pending() []models.Reversal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedRows()
}

// Stop disarms every timer. Persisted rows are kept for the next Recover.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// arm must be called with s.mu held
func (s *Scheduler) arm(r models.Reversal) {
	delay := r.DueAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	id := r.ID
	s.timers[id] = s.afterFunc(delay, func() { s.fire(id) })
}

// sortedRows must be called with s.mu held
func (s *Scheduler) sortedRows() []models.Reversal {
	rows := make([]models.Reversal, 0, len(s.rows))
	for _, r := range s.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DueAt.Equal(rows[j].DueAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].DueAt.Before(rows[j].DueAt)
	})
	return rows
}

func (s *Scheduler) fire(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), reversalTimeout)
	defer cancel()

	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.rows, id)
	delete(s.timers, id)
	err := s.store.SaveReversals(ctx, s.sortedRows())
	s.mu.Unlock()

	if err != nil {
		logger.Error(fmt.Sprintf("Could not drop reversal %s from the table: %v", id, err), "Reversal")
	}

	if err := s.apply(r); err != nil {
		logger.Error(fmt.Sprintf("Reversal %s (%s of %s) failed: %v", r.ID, r.Kind, r.UserID, err), "Reversal")
		return
	}
	logger.Info(fmt.Sprintf("Reversal %s done: %s of %s", r.ID, r.Kind, r.UserID), "Reversal")
}

func (s *Scheduler) apply(r models.Reversal) error {
	switch r.Kind {
	case models.ReversalUnban:
		return s.session.GuildBanDelete(r.GuildID, r.UserID)
	case models.ReversalRemoveRole:
		return s.session.GuildMemberRoleRemove(r.GuildID, r.UserID, r.RoleID)
	default:
		return fmt.Errorf("unknown reversal kind %q", r.Kind)
	}
}
