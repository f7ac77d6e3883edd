package store

import (
	"context"

	"cardpay-go/internal/models"
)

// Keys under which the two collections live in the key-value backends.
const (
	KeyCards          = "cards"
	KeyPaymentHistory = "paymentHistory"
)

// Snapshot is the full persisted state: the card collection and the
// payment history log, most-recent-first. Both are always loaded and
// saved together so a restart never observes a half-written state.
type Snapshot struct {
	Cards          []models.Card
	PaymentHistory []models.PaymentRecord
}

type Store interface {
	// Load returns the persisted snapshot, or an empty one when the
	// backend holds no data yet.
	Load(ctx context.Context) (*Snapshot, error)
	// Save persists both collections as one commit.
	Save(ctx context.Context, snap *Snapshot) error
}
