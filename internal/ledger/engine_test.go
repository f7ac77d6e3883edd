package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"cardpay-go/internal/gateway"
	"cardpay-go/internal/models"
	"cardpay-go/internal/store"
)

type fakeStore struct {
	snap     *store.Snapshot
	loadErr  error
	saveErr  error
	saves    int
	lastSave *store.Snapshot
}

func (f *fakeStore) Load(ctx context.Context) (*store.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.snap == nil {
		return &store.Snapshot{}, nil
	}
	return f.snap, nil
}

func (f *fakeStore) Save(ctx context.Context, snap *store.Snapshot) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.lastSave = snap
	return nil
}

type fakeGateway struct {
	err   error
	calls int
}

func (f *fakeGateway) Process(ctx context.Context, req gateway.Request) (*gateway.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.Result{OrderID: "order_test", PaymentID: "pay_test", Signature: "sig"}, nil
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func testCard(id string, totalDue, minimumDue, availableCredit float64, dueDate time.Time) models.Card {
	return models.Card{
		ID:               id,
		Bank:             "HDFC Bank",
		CardNumberMasked: "4532 **** **** 9012",
		TotalDue:         totalDue,
		MinimumDue:       minimumDue,
		DueDate:          dueDate,
		CreditLimit:      200000,
		AvailableCredit:  availableCredit,
	}
}

func newTestEngine(t *testing.T, cards []models.Card, history []models.PaymentRecord, st *fakeStore, gw gateway.Gateway) *Engine {
	t.Helper()
	if st == nil {
		st = &fakeStore{}
	}
	if gw == nil {
		gw = &fakeGateway{}
	}
	st.snap = &store.Snapshot{Cards: cards, PaymentHistory: history}
	e := New(Deps{
		Store:    st,
		Gateway:  gw,
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	})
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return e
}

func TestApplyPaymentSuccess(t *testing.T) {
	st := &fakeStore{}
	card := testCard("card-1", 45678, 5000, 154322, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, st, nil)

	rec, err := e.ApplyPayment(context.Background(), PaymentRequest{
		CardID:    "card-1",
		Amount:    5000,
		UPIMethod: models.GooglePay,
	})
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	if rec.Status != models.StatusSuccess {
		t.Errorf("status = %q, want %q", rec.Status, models.StatusSuccess)
	}
	if rec.Amount != 5000 {
		t.Errorf("amount = %v, want 5000", rec.Amount)
	}
	if rec.CardBank != "HDFC Bank" || rec.CardNumberMasked != "4532 **** **** 9012" {
		t.Errorf("card snapshot fields wrong: %+v", rec)
	}
	if rec.UPIMethod != models.GooglePay {
		t.Errorf("upi method = %q", rec.UPIMethod)
	}

	got, err := e.GetCard("card-1")
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.TotalDue != 40678 {
		t.Errorf("totalDue = %v, want 40678", got.TotalDue)
	}
	if got.AvailableCredit != 159322 {
		t.Errorf("availableCredit = %v, want 159322", got.AvailableCredit)
	}
	if got.MinimumDue != 5000 {
		t.Errorf("minimumDue = %v, want 5000 (no clamp expected)", got.MinimumDue)
	}

	history := e.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].ID != rec.ID {
		t.Errorf("history[0] is not the new record")
	}
	if st.lastSave == nil || len(st.lastSave.PaymentHistory) != 1 {
		t.Errorf("snapshot not persisted with the new record")
	}
}

func TestApplyPaymentClampsMinimumDue(t *testing.T) {
	card := testCard("card-1", 5000, 5000, 150000, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, nil, nil)

	if _, err := e.ApplyPayment(context.Background(), PaymentRequest{
		CardID: "card-1", Amount: 4000, UPIMethod: models.Paytm,
	}); err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	got, _ := e.GetCard("card-1")
	if got.TotalDue != 1000 {
		t.Errorf("totalDue = %v, want 1000", got.TotalDue)
	}
	if got.MinimumDue != 1000 {
		t.Errorf("minimumDue = %v, want clamp to 1000", got.MinimumDue)
	}
}

func TestApplyPaymentFullAmount(t *testing.T) {
	card := testCard("card-1", 5000, 2000, 150000, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, nil, nil)

	if _, err := e.ApplyPayment(context.Background(), PaymentRequest{
		CardID: "card-1", Amount: 5000, UPIMethod: models.PhonePe,
	}); err != nil {
		t.Fatalf("paying the exact total due must succeed: %v", err)
	}

	got, _ := e.GetCard("card-1")
	if got.TotalDue != 0 {
		t.Errorf("totalDue = %v, want 0", got.TotalDue)
	}
	if got.MinimumDue != 0 {
		t.Errorf("minimumDue = %v, want clamp to 0", got.MinimumDue)
	}
}

func TestApplyPaymentBelowMinimumIsAccepted(t *testing.T) {
	// A below-minimum amount is a UI confirmation concern, never an
	// engine rejection.
	card := testCard("card-1", 45678, 5000, 154322, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, nil, nil)

	if _, err := e.ApplyPayment(context.Background(), PaymentRequest{
		CardID: "card-1", Amount: 100, UPIMethod: models.GooglePay,
	}); err != nil {
		t.Fatalf("amount below minimum due must be accepted: %v", err)
	}
}

func TestApplyPaymentValidation(t *testing.T) {
	dueDate := testNow.AddDate(0, 0, 9)

	tests := []struct {
		name    string
		req     PaymentRequest
		wantErr error
	}{
		{
			name:    "unknown card",
			req:     PaymentRequest{CardID: "nope", Amount: 100, UPIMethod: models.GooglePay},
			wantErr: ErrCardNotFound,
		},
		{
			name:    "zero amount",
			req:     PaymentRequest{CardID: "card-1", Amount: 0, UPIMethod: models.GooglePay},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     PaymentRequest{CardID: "card-1", Amount: -50, UPIMethod: models.GooglePay},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NaN amount",
			req:     PaymentRequest{CardID: "card-1", Amount: math.NaN(), UPIMethod: models.GooglePay},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "infinite amount",
			req:     PaymentRequest{CardID: "card-1", Amount: math.Inf(1), UPIMethod: models.GooglePay},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "amount exceeds total due",
			req:     PaymentRequest{CardID: "card-1", Amount: 45679, UPIMethod: models.GooglePay},
			wantErr: ErrAmountExceedsDue,
		},
		{
			name:    "unknown upi method",
			req:     PaymentRequest{CardID: "card-1", Amount: 100, UPIMethod: "CASH"},
			wantErr: ErrInvalidUPIMethod,
		},
		{
			name:    "upi id missing for UPI_ID method",
			req:     PaymentRequest{CardID: "card-1", Amount: 100, UPIMethod: models.UPIID},
			wantErr: ErrInvalidUPIID,
		},
		{
			name:    "malformed upi id",
			req:     PaymentRequest{CardID: "card-1", Amount: 100, UPIMethod: models.UPIID, UPIID: "user"},
			wantErr: ErrInvalidUPIID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{}
			gw := &fakeGateway{}
			card := testCard("card-1", 45678, 5000, 154322, dueDate)
			e := newTestEngine(t, []models.Card{card}, nil, st, gw)
			savesBefore := st.saves

			rec, err := e.ApplyPayment(context.Background(), tt.req)
			if rec != nil {
				t.Errorf("expected nil record, got %+v", rec)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}

			if gw.calls != 0 {
				t.Errorf("gateway must not be called on validation failure")
			}
			got, _ := e.GetCard("card-1")
			if got.TotalDue != 45678 || got.AvailableCredit != 154322 || got.MinimumDue != 5000 {
				t.Errorf("card mutated on validation failure: %+v", got)
			}
			if len(e.History()) != 0 {
				t.Errorf("history grew on validation failure")
			}
			if st.saves != savesBefore {
				t.Errorf("snapshot saved on validation failure")
			}
		})
	}
}

func TestApplyPaymentGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("upstream timeout")}
	card := testCard("card-1", 45678, 5000, 154322, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, nil, gw)

	rec, err := e.ApplyPayment(context.Background(), PaymentRequest{
		CardID: "card-1", Amount: 5000, UPIMethod: models.GooglePay,
	})
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
	if !errors.Is(err, ErrGateway) {
		t.Errorf("error = %v, want ErrGateway", err)
	}

	got, _ := e.GetCard("card-1")
	if got.TotalDue != 45678 || got.AvailableCredit != 154322 {
		t.Errorf("balance touched after gateway failure: %+v", got)
	}
	if len(e.History()) != 0 {
		t.Errorf("history grew after gateway failure")
	}
}

func TestApplyPaymentPersistenceFailure(t *testing.T) {
	st := &fakeStore{}
	card := testCard("card-1", 45678, 5000, 154322, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, st, nil)

	st.saveErr = errors.New("disk full")
	rec, err := e.ApplyPayment(context.Background(), PaymentRequest{
		CardID: "card-1", Amount: 5000, UPIMethod: models.GooglePay,
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("error = %v, want ErrPersistence", err)
	}
	if rec == nil || rec.Status != models.StatusSuccess {
		t.Fatalf("the applied payment record must still be returned, got %+v", rec)
	}

	// In-memory state keeps the payment.
	got, _ := e.GetCard("card-1")
	if got.TotalDue != 40678 {
		t.Errorf("totalDue = %v, want 40678 (mutation kept)", got.TotalDue)
	}
	if len(e.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(e.History()))
	}

	// Flush retries the write once the store recovers.
	st.saveErr = nil
	if err := e.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if st.lastSave == nil || len(st.lastSave.PaymentHistory) != 1 {
		t.Errorf("Flush did not persist the dirty snapshot")
	}
	if err := e.Flush(context.Background()); err != nil {
		t.Fatalf("Flush on clean state: %v", err)
	}
}

func TestHistoryOrdering(t *testing.T) {
	card := testCard("card-1", 45678, 5000, 154322, testNow.AddDate(0, 0, 9))
	st := &fakeStore{}
	st.snap = &store.Snapshot{Cards: []models.Card{card}}

	clock := testNow
	e := New(Deps{
		Store:    st,
		Gateway:  &fakeGateway{},
		Now:      func() time.Time { return clock },
		Location: time.UTC,
	})
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	amounts := []float64{100, 200, 300}
	for _, amt := range amounts {
		clock = clock.Add(time.Minute)
		if _, err := e.ApplyPayment(context.Background(), PaymentRequest{
			CardID: "card-1", Amount: amt, UPIMethod: models.GooglePay,
		}); err != nil {
			t.Fatalf("ApplyPayment(%v): %v", amt, err)
		}
	}

	history := e.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].Amount != 300 || history[2].Amount != 100 {
		t.Errorf("history not most-recent-first: %v, %v, %v",
			history[0].Amount, history[1].Amount, history[2].Amount)
	}
	for i := 0; i < len(history)-1; i++ {
		if history[i].Date.Before(history[i+1].Date) {
			t.Errorf("history[%d] older than history[%d]", i, i+1)
		}
	}
}

func TestMinimumDueInvariantAcrossPayments(t *testing.T) {
	card := testCard("card-1", 10000, 4000, 150000, testNow.AddDate(0, 0, 9))
	e := newTestEngine(t, []models.Card{card}, nil, nil, nil)

	for _, amt := range []float64{3000, 3500, 2000, 1500} {
		if _, err := e.ApplyPayment(context.Background(), PaymentRequest{
			CardID: "card-1", Amount: amt, UPIMethod: models.Paytm,
		}); err != nil {
			t.Fatalf("ApplyPayment(%v): %v", amt, err)
		}
		got, _ := e.GetCard("card-1")
		if got.MinimumDue < 0 || got.MinimumDue > got.TotalDue {
			t.Fatalf("invariant violated after paying %v: minimumDue=%v totalDue=%v",
				amt, got.MinimumDue, got.TotalDue)
		}
	}
}

func TestListCardsReturnsCopies(t *testing.T) {
	card := testCard("card-1", 45678, 5000, 154322, testNow.AddDate(0, 0, 9))
	card.Transactions = []models.Transaction{
		{ID: "t1", Name: "Amazon.in", Date: testNow.AddDate(0, 0, -5), Amount: 3499, Category: "Shopping"},
	}
	e := newTestEngine(t, []models.Card{card}, nil, nil, nil)

	cards := e.ListCards()
	cards[0].TotalDue = 0
	cards[0].Transactions[0].Name = "tampered"

	got, _ := e.GetCard("card-1")
	if got.TotalDue != 45678 {
		t.Errorf("engine state mutated through ListCards result")
	}
	if got.Transactions[0].Name != "Amazon.in" {
		t.Errorf("transactions shared with ListCards result")
	}
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	st := &fakeStore{}
	e := New(Deps{
		Store:    st,
		Gateway:  &fakeGateway{},
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	})
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cards := e.ListCards()
	if len(cards) != 3 {
		t.Fatalf("seeded %d cards, want 3", len(cards))
	}
	if cards[0].Bank != "HDFC Bank" || cards[0].TotalDue != 45678 {
		t.Errorf("unexpected first fixture card: %+v", cards[0])
	}
	for _, c := range cards {
		if c.MinimumDue > c.TotalDue {
			t.Errorf("fixture %s violates minimumDue <= totalDue", c.Bank)
		}
	}
	if st.saves != 1 {
		t.Errorf("seed not persisted, saves = %d", st.saves)
	}
}

func TestLoadPropagatesStoreError(t *testing.T) {
	st := &fakeStore{loadErr: errors.New("corrupt snapshot")}
	e := New(Deps{Store: st, Gateway: &fakeGateway{}})
	if err := e.Load(context.Background()); err == nil {
		t.Fatal("expected error from failing store")
	}
}
