// Package gormkv mirrors the ledger snapshot into a single key-value
// table, for running the demo server against PostgreSQL instead of a
// local file. Same two keys, same JSON payloads.
package gormkv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardpay-go/internal/store"
)

type Row struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (Row) TableName() string { return "ledger_kv" }

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrate ledger_kv: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (*store.Snapshot, error) {
	var rows []Row
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load ledger_kv: %w", err)
	}

	snap := &store.Snapshot{}
	for _, row := range rows {
		switch row.Key {
		case store.KeyCards:
			var dtos []store.CardDTO
			if err := json.Unmarshal(row.Value, &dtos); err != nil {
				return nil, fmt.Errorf("decode %s: %w", row.Key, err)
			}
			cards, err := store.CardsFromDTO(dtos)
			if err != nil {
				return nil, err
			}
			snap.Cards = cards
		case store.KeyPaymentHistory:
			var dtos []store.PaymentRecordDTO
			if err := json.Unmarshal(row.Value, &dtos); err != nil {
				return nil, fmt.Errorf("decode %s: %w", row.Key, err)
			}
			history, err := store.HistoryFromDTO(dtos)
			if err != nil {
				return nil, err
			}
			snap.PaymentHistory = history
		}
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap *store.Snapshot) error {
	cards, err := json.Marshal(store.CardsToDTO(snap.Cards))
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	history, err := json.Marshal(store.HistoryToDTO(snap.PaymentHistory))
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	rows := []Row{
		{Key: store.KeyCards, Value: cards},
		{Key: store.KeyPaymentHistory, Value: history},
	}
	// Both keys go in one transaction so a restart never reads cards
	// from one payment and history from another.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

var _ store.Store = (*Store)(nil)
