// Package ledger owns the card collection and the payment history log:
// the rules for how a card's balance evolves under a payment, plus the
// derived dashboard statistics.
package ledger

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cardpay-go/internal/analytics"
	"cardpay-go/internal/gateway"
	"cardpay-go/internal/models"
	"cardpay-go/internal/store"
)

type PaymentRequest struct {
	CardID    string
	Amount    float64
	UPIMethod models.UPIMethod
	UPIID     string
}

// Deps are the engine's collaborators, all injected. Now and Location
// default to the system clock and zone when unset.
type Deps struct {
	Store     store.Store
	Gateway   gateway.Gateway
	Analytics *analytics.Logger
	Log       zerolog.Logger
	Now       func() time.Time
	Location  *time.Location
}

type Engine struct {
	mu      sync.Mutex
	cards   []models.Card
	history []models.PaymentRecord
	// dirty marks in-memory state newer than the durable snapshot,
	// after a failed Save. The next commit or Flush retries the write.
	dirty bool

	store     store.Store
	gateway   gateway.Gateway
	analytics *analytics.Logger
	log       zerolog.Logger
	now       func() time.Time
	loc       *time.Location
}

func New(deps Deps) *Engine {
	e := &Engine{
		store:     deps.Store,
		gateway:   deps.Gateway,
		analytics: deps.Analytics,
		log:       deps.Log,
		now:       deps.Now,
		loc:       deps.Location,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	return e
}

// Load pulls the persisted snapshot. An empty backend is seeded with the
// demo fixture cards and persisted immediately.
func (e *Engine) Load(ctx context.Context) error {
	snap, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(snap.Cards) == 0 && len(snap.PaymentHistory) == 0 {
		e.cards = SeedCards(e.now())
		e.history = nil
		e.log.Info().Int("cards", len(e.cards)).Msg("seeded fixture cards")
		return e.persistLocked(ctx)
	}

	e.cards = snap.Cards
	e.history = snap.PaymentHistory
	return nil
}

// ApplyPayment validates the request, runs the gateway round trip, and
// only then mutates the card and appends a history record. The mutation
// and the history append happen together or not at all.
//
// The engine holds a single mutex for the whole operation, so at most
// one payment is in flight at a time; the read-modify-write of the three
// balance fields is never interleaved.
func (e *Engine) ApplyPayment(ctx context.Context, req PaymentRequest) (*models.PaymentRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.cardIndexLocked(req.CardID)
	if idx < 0 {
		return nil, ErrCardNotFound
	}
	card := &e.cards[idx]

	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, ErrInvalidAmount
	}
	if req.Amount > card.TotalDue {
		return nil, ErrAmountExceedsDue
	}
	if !req.UPIMethod.Valid() {
		return nil, ErrInvalidUPIMethod
	}
	if req.UPIMethod == models.UPIID && !ValidUPIID(req.UPIID) {
		return nil, ErrInvalidUPIID
	}

	e.analytics.Log(analytics.PaymentInitiated, map[string]interface{}{
		"card_bank":  card.Bank,
		"amount":     req.Amount,
		"upi_method": string(req.UPIMethod),
	})

	// Balance is only touched once the gateway step is known to have
	// succeeded.
	res, err := e.gateway.Process(ctx, gateway.Request{
		CardID:    card.ID,
		CardBank:  card.Bank,
		Amount:    req.Amount,
		UPIMethod: req.UPIMethod,
		UPIID:     req.UPIID,
	})
	if err != nil {
		e.analytics.Log(analytics.PaymentFailed, map[string]interface{}{
			"amount": req.Amount,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	now := e.now()
	card.TotalDue -= req.Amount
	card.AvailableCredit += req.Amount
	// Minimum due can never exceed what remains owed.
	if card.TotalDue < card.MinimumDue {
		card.MinimumDue = card.TotalDue
	}

	rec := models.PaymentRecord{
		ID:               uuid.NewString(),
		TransactionID:    models.NewTransactionRef(now),
		CardBank:         card.Bank,
		CardNumberMasked: card.CardNumberMasked,
		Amount:           req.Amount,
		UPIMethod:        req.UPIMethod,
		Date:             now,
		Status:           models.StatusSuccess,
	}
	e.history = append([]models.PaymentRecord{rec}, e.history...)

	e.log.Info().
		Str("card_bank", card.Bank).
		Float64("amount", req.Amount).
		Str("ref", rec.TransactionID).
		Str("gateway_payment_id", res.PaymentID).
		Msg("payment applied")
	e.analytics.Log(analytics.PaymentSuccess, map[string]interface{}{
		"card_bank":  card.Bank,
		"amount":     req.Amount,
		"upi_method": string(req.UPIMethod),
	})

	if err := e.persistLocked(ctx); err != nil {
		// At-least-once-applied, at-most-once-durable: the in-memory
		// state keeps the payment, the caller is told the write failed,
		// and the snapshot is retried on the next commit.
		e.log.Error().Err(err).Msg("snapshot write failed after payment")
		return &rec, err
	}
	return &rec, nil
}

// ListCards returns a snapshot copy of the cards in insertion order.
func (e *Engine) ListCards() []models.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Card, 0, len(e.cards))
	for _, c := range e.cards {
		out = append(out, c.Clone())
	}
	return out
}

func (e *Engine) GetCard(id string) (models.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.cardIndexLocked(id)
	if idx < 0 {
		return models.Card{}, ErrCardNotFound
	}
	return e.cards[idx].Clone(), nil
}

// History returns the payment log, most recent first.
func (e *Engine) History() []models.PaymentRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.PaymentRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Flush retries the durable write if the last one failed. No-op when the
// snapshot is already clean.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dirty {
		return nil
	}
	return e.persistLocked(ctx)
}

func (e *Engine) persistLocked(ctx context.Context) error {
	snap := &store.Snapshot{Cards: e.cards, PaymentHistory: e.history}
	if err := e.store.Save(ctx, snap); err != nil {
		e.dirty = true
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	e.dirty = false
	return nil
}

func (e *Engine) cardIndexLocked(id string) int {
	for i := range e.cards {
		if e.cards[i].ID == id {
			return i
		}
	}
	return -1
}
