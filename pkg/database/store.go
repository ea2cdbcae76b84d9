package database

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
)

// CollectionName holds every moderation document, one record per (guild, document)
const CollectionName = "moderation"

type ledgerDocument struct {
	GuildID  string        `bson:"guildId"`
	Name     string        `bson:"name"`
	Warnings models.Ledger `bson:"warnings"`
}

type logChannelDocument struct {
	GuildID   string `bson:"guildId"`
	Name      string `bson:"name"`
	ChannelID string `bson:"channelId"`
}

type reversalsDocument struct {
	GuildID   string            `bson:"guildId"`
	Name      string            `bson:"name"`
	Reversals []models.Reversal `bson:"reversals"`
}

// MongoStore is the MongoDB storage backend. It keeps the same whole-document
// semantics as the file backend.
type MongoStore struct {
	guildID    string
	ledgers    *DataManager[ledgerDocument]
	logChannel *DataManager[logChannelDocument]
	reversals  *DataManager[reversalsDocument]
}

// NewMongoStore creates a MongoStore scoped to guildID
func NewMongoStore(db *Database, guildID string) *MongoStore {
	return &MongoStore{
		guildID:    guildID,
		ledgers:    NewDataManager[ledgerDocument](CollectionName, db),
		logChannel: NewDataManager[logChannelDocument](CollectionName, db),
		reversals:  NewDataManager[reversalsDocument](CollectionName, db),
	}
}

func (s *MongoStore) query(doc string) bson.M {
	return bson.M{"guildId": s.guildID, "name": doc}
}

// Name implements store.Store
func (s *MongoStore) Name() string {
	return "mongo"
}

// LoadLedger implements store.Store
func (s *MongoStore) LoadLedger(ctx context.Context) models.Ledger {
	doc, err := s.ledgers.Get(ctx, s.query(store.DocWarnings))
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not load warnings, using empty ledger: %v", err), "MongoStore")
		return models.Ledger{}
	}
	if doc == nil || doc.Warnings == nil {
		return models.Ledger{}
	}
	return doc.Warnings
}

// SaveLedger implements store.Store
func (s *MongoStore) SaveLedger(ctx context.Context, ledger models.Ledger) error {
	if ledger == nil {
		ledger = models.Ledger{}
	}
	return s.ledgers.Set(ctx, s.query(store.DocWarnings), bson.M{"warnings": ledger})
}

// LoadLogChannel implements store.Store
func (s *MongoStore) LoadLogChannel(ctx context.Context) (string, bool) {
	doc, err := s.logChannel.Get(ctx, s.query(store.DocLogChannel))
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not load log channel: %v", err), "MongoStore")
		return "", false
	}
	if doc == nil || doc.ChannelID == "" {
		return "", false
	}
	return doc.ChannelID, true
}

// SaveLogChannel implements store.Store
func (s *MongoStore) SaveLogChannel(ctx context.Context, channelID string) error {
	return s.logChannel.Set(ctx, s.query(store.DocLogChannel), bson.M{"channelId": channelID})
}

// LoadReversals implements store.Store
func (s *MongoStore) LoadReversals(ctx context.Context) []models.Reversal {
	doc, err := s.reversals.Get(ctx, s.query(store.DocReversals))
	if err != nil {
		logger.Warn(fmt.Sprintf("Could not load pending reversals: %v", err), "MongoStore")
		return nil
	}
	if doc == nil {
		return nil
	}
	return doc.Reversals
}

// SaveReversals implements store.Store. An empty table removes the document.
func (s *MongoStore) SaveReversals(ctx context.Context, reversals []models.Reversal) error {
	if len(reversals) == 0 {
		return s.reversals.Delete(ctx, s.query(store.DocReversals))
	}
	return s.reversals.Set(ctx, s.query(store.DocReversals), bson.M{"reversals": reversals})
}

var _ store.Store = (*MongoStore)(nil)
