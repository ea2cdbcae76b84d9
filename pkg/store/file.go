package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/goccy/go-json"
)

// FileStore keeps each document as a pretty-printed JSON file in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Name implements Store
func (s *FileStore) Name() string {
	return "file"
}

// Path returns the file backing the named document
func (s *FileStore) Path(doc string) string {
	return filepath.Join(s.dir, doc+".json")
}

// LoadLedger implements Store
func (s *FileStore) LoadLedger(_ context.Context) models.Ledger {
	var ledger models.Ledger
	if !s.read(DocWarnings, &ledger) || ledger == nil {
		return models.Ledger{}
	}
	return ledger
}

// SaveLedger implements Store
func (s *FileStore) SaveLedger(_ context.Context, ledger models.Ledger) error {
	if ledger == nil {
		ledger = models.Ledger{}
	}
	return s.write(DocWarnings, ledger)
}

// LoadLogChannel implements Store
func (s *FileStore) LoadLogChannel(_ context.Context) (string, bool) {
	var doc models.LogChannel
	if !s.read(DocLogChannel, &doc) || doc.ChannelID == "" {
		return "", false
	}
	return doc.ChannelID, true
}

// SaveLogChannel implements Store
func (s *FileStore) SaveLogChannel(_ context.Context, channelID string) error {
	return s.write(DocLogChannel, models.LogChannel{ChannelID: channelID})
}

// LoadReversals implements Store
func (s *FileStore) LoadReversals(_ context.Context) []models.Reversal {
	var reversals []models.Reversal
	if !s.read(DocReversals, &reversals) {
		return nil
	}
	return reversals
}

// SaveReversals implements Store
func (s *FileStore) SaveReversals(_ context.Context, reversals []models.Reversal) error {
	if reversals == nil {
		reversals = []models.Reversal{}
	}
	return s.write(DocReversals, reversals)
}

// read decodes the document into v and reports whether it succeeded.
// A missing file is silent, anything else is logged.
func (s *FileStore) read(doc string, v interface{}) bool {
	data, err := os.ReadFile(s.Path(doc))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn(fmt.Sprintf("Could not read %s, using empty default: %v", doc, err), "Store")
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn(fmt.Sprintf("Malformed %s document, using empty default: %v", doc, err), "Store")
		return false
	}
	return true
}

// write replaces the document through a temp file and rename so readers never
// observe a half-written file
func (s *FileStore) write(doc string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", doc, err)
	}

	tmp, err := os.CreateTemp(s.dir, doc+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", doc, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", doc, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", doc, err)
	}

	if err := os.Rename(tmp.Name(), s.Path(doc)); err != nil {
		return fmt.Errorf("replace %s: %w", doc, err)
	}
	return nil
}
