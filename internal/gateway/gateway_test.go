package gateway

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"cardpay-go/internal/models"
)

func TestSimulatedProcess(t *testing.T) {
	g := &Simulated{}
	res, err := g.Process(context.Background(), Request{
		CardID: "card-1", CardBank: "HDFC Bank", Amount: 5000, UPIMethod: models.GooglePay,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !strings.HasPrefix(res.OrderID, "order_") {
		t.Errorf("orderID = %q, want order_ prefix", res.OrderID)
	}
	if !strings.HasPrefix(res.PaymentID, "pay_") {
		t.Errorf("paymentID = %q, want pay_ prefix", res.PaymentID)
	}

	decoded, err := base64.StdEncoding.DecodeString(res.Signature)
	if err != nil {
		t.Fatalf("signature not base64: %v", err)
	}
	if string(decoded) != res.OrderID+"|"+res.PaymentID {
		t.Errorf("signature payload = %q, want %q", decoded, res.OrderID+"|"+res.PaymentID)
	}
}

func TestSimulatedProcessDistinctIDs(t *testing.T) {
	g := &Simulated{}
	a, _ := g.Process(context.Background(), Request{})
	b, _ := g.Process(context.Background(), Request{})
	if a.PaymentID == b.PaymentID || a.OrderID == b.OrderID {
		t.Errorf("identifiers repeated across calls: %+v vs %+v", a, b)
	}
}

func TestSimulatedProcessHonorsContext(t *testing.T) {
	g := &Simulated{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Process(ctx, Request{}); err == nil {
		t.Fatal("expected context error from cancelled Process")
	}
}
