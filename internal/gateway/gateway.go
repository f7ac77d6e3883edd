// Package gateway is the payment-gateway collaborator. The ledger only
// sees one opaque step: Process either succeeds or fails, and the
// balance is never touched unless it succeeded.
package gateway

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardpay-go/internal/models"
)

type Request struct {
	CardID    string
	CardBank  string
	Amount    float64
	UPIMethod models.UPIMethod
	UPIID     string
}

type Result struct {
	OrderID   string
	PaymentID string
	Signature string
}

type Gateway interface {
	Process(ctx context.Context, req Request) (*Result, error)
}

// Simulated stands in for a real UPI gateway round trip: it sleeps for a
// fixed delay, then fabricates order/payment identifiers and a signature.
// A real integration is a drop-in replacement with the same contract.
type Simulated struct {
	Delay time.Duration
}

func (g *Simulated) Process(ctx context.Context, req Request) (*Result, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	orderID := "order_" + shortID()
	paymentID := "pay_" + shortID()
	return &Result{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: sign(orderID, paymentID),
	}, nil
}

// A production gateway would HMAC this with the merchant secret.
func sign(orderID, paymentID string) string {
	return base64.StdEncoding.EncodeToString([]byte(orderID + "|" + paymentID))
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

var _ Gateway = (*Simulated)(nil)
