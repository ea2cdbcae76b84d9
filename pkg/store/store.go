// Package store persists the moderation state: the warning ledger, the log
// channel pointer and the table of pending reversals.
//
// Every document is read and written whole. Reads never fail: a missing or
// unreadable document degrades to its empty value.
package store

import (
	"context"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Document names shared by every backend
const (
	DocWarnings   = "warnings"
	DocLogChannel = "logChannel"
	DocReversals  = "reversals"
)

// Store is implemented by every storage backend
type Store interface {
	// Name identifies the backend in logs and status output
	Name() string

	LoadLedger(ctx context.Context) models.Ledger
	SaveLedger(ctx context.Context, ledger models.Ledger) error

	LoadLogChannel(ctx context.Context) (channelID string, ok bool)
	SaveLogChannel(ctx context.Context, channelID string) error

	LoadReversals(ctx context.Context) []models.Reversal
	SaveReversals(ctx context.Context, reversals []models.Reversal) error
}
