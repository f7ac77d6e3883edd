package models

import (
	"fmt"
	"math/rand"
	"time"
)

type UPIMethod string

const (
	GooglePay UPIMethod = "GOOGLE_PAY"
	PhonePe   UPIMethod = "PHONE_PE"
	Paytm     UPIMethod = "PAYTM"
	UPIID     UPIMethod = "UPI_ID"
)

func (m UPIMethod) Valid() bool {
	switch m {
	case GooglePay, PhonePe, Paytm, UPIID:
		return true
	}
	return false
}

type PaymentStatus string

const (
	StatusSuccess PaymentStatus = "success"
	StatusPending PaymentStatus = "pending"
	StatusFailed  PaymentStatus = "failed"
)

// PaymentRecord is an immutable entry in the payment history log.
// CardBank and CardNumberMasked are snapshots taken at payment time,
// not back-references to the card.
type PaymentRecord struct {
	ID               string        `json:"id"`
	TransactionID    string        `json:"transaction_id"`
	CardBank         string        `json:"card_bank"`
	CardNumberMasked string        `json:"card_number_masked"`
	Amount           float64       `json:"amount"`
	UPIMethod        UPIMethod     `json:"upi_method"`
	Date             time.Time     `json:"date"`
	Status           PaymentStatus `json:"status"`
}

// NewTransactionRef builds a human-readable payment reference of the form
// TXN<unix-seconds><6-digit-random>. Uniqueness is probabilistic; callers
// treat a collision as acceptably rare.
func NewTransactionRef(now time.Time) string {
	return fmt.Sprintf("TXN%d%06d", now.Unix(), 100000+rand.Intn(900000))
}
