package models

import (
	"strings"
	"time"
)

type Card struct {
	ID               string        `json:"id"`
	Bank             string        `json:"bank"`
	CardNumberMasked string        `json:"card_number_masked"`
	TotalDue         float64       `json:"total_due"`
	MinimumDue       float64       `json:"minimum_due"`
	DueDate          time.Time     `json:"due_date"`
	CreditLimit      float64       `json:"credit_limit"`
	AvailableCredit  float64       `json:"available_credit"`
	Transactions     []Transaction `json:"transactions"`
}

// Transaction is a billed card transaction. Category is a free-form tag
// used only for display iconography.
type Transaction struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
}

// Clone returns a deep copy so callers can hand cards out without
// exposing the engine's backing slices.
func (c Card) Clone() Card {
	out := c
	if c.Transactions != nil {
		out.Transactions = make([]Transaction, len(c.Transactions))
		copy(out.Transactions, c.Transactions)
	}
	return out
}

// MaskCardNumber keeps the first and last 4-digit groups of a
// space-separated 16-digit number and masks the middle ones.
// Anything else is returned unchanged.
func MaskCardNumber(number string) string {
	groups := strings.Fields(number)
	if len(groups) != 4 {
		return number
	}
	return groups[0] + " **** **** " + groups[3]
}
