package store

import (
	"context"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// MemoryStore keeps every document in process memory
type MemoryStore struct {
	mu         sync.Mutex
	ledger     models.Ledger
	logChannel string
	reversals  []models.Reversal
	writeErr   error
	writes     int
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledger: models.Ledger{}}
}

// Name implements Store
func (s *MemoryStore) Name() string {
	return "memory"
}

// FailWrites makes every subsequent save return err; nil restores normal behaviour
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Writes returns how many saves succeeded
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// LoadLedger implements Store
func (s *MemoryStore) LoadLedger(_ context.Context) models.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// SaveLedger implements Store
func (s *MemoryStore) SaveLedger(_ context.Context, ledger models.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.ledger = ledger.Clone()
	s.writes++
	return nil
}

// LoadLogChannel implements Store
func (s *MemoryStore) LoadLogChannel(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logChannel, s.logChannel != ""
}

// SaveLogChannel implements Store
func (s *MemoryStore) SaveLogChannel(_ context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.logChannel = channelID
	s.writes++
	return nil
}

// LoadReversals implements Store
func (s *MemoryStore) LoadReversals(_ context.Context) []models.Reversal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Reversal(nil), s.reversals...)
}

// SaveReversals implements Store
func (s *MemoryStore) SaveReversals(_ context.Context, reversals []models.Reversal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.reversals = append([]models.Reversal(nil), reversals...)
	s.writes++
	return nil
}
