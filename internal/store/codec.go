package store

import (
	"fmt"
	"time"

	"cardpay-go/internal/models"
)

// Wire DTOs for the persisted JSON. Due dates and transaction dates are
// ISO-8601 date strings (day granularity), payment dates are full RFC 3339
// timestamps. Decoding is strict: a malformed date is an error, never
// silently defaulted.
const dateLayout = "2006-01-02"

type CardDTO struct {
	ID               string           `json:"id"`
	Bank             string           `json:"bank"`
	CardNumberMasked string           `json:"card_number_masked"`
	TotalDue         float64          `json:"total_due"`
	MinimumDue       float64          `json:"minimum_due"`
	DueDate          string           `json:"due_date"`
	CreditLimit      float64          `json:"credit_limit"`
	AvailableCredit  float64          `json:"available_credit"`
	Transactions     []TransactionDTO `json:"transactions"`
}

type TransactionDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

type PaymentRecordDTO struct {
	ID               string  `json:"id"`
	TransactionID    string  `json:"transaction_id"`
	CardBank         string  `json:"card_bank"`
	CardNumberMasked string  `json:"card_number_masked"`
	Amount           float64 `json:"amount"`
	UPIMethod        string  `json:"upi_method"`
	Date             string  `json:"date"`
	Status           string  `json:"status"`
}

func CardsToDTO(cards []models.Card) []CardDTO {
	out := make([]CardDTO, 0, len(cards))
	for _, c := range cards {
		txns := make([]TransactionDTO, 0, len(c.Transactions))
		for _, t := range c.Transactions {
			txns = append(txns, TransactionDTO{
				ID:       t.ID,
				Name:     t.Name,
				Date:     t.Date.Format(dateLayout),
				Amount:   t.Amount,
				Category: t.Category,
			})
		}
		out = append(out, CardDTO{
			ID:               c.ID,
			Bank:             c.Bank,
			CardNumberMasked: c.CardNumberMasked,
			TotalDue:         c.TotalDue,
			MinimumDue:       c.MinimumDue,
			DueDate:          c.DueDate.Format(dateLayout),
			CreditLimit:      c.CreditLimit,
			AvailableCredit:  c.AvailableCredit,
			Transactions:     txns,
		})
	}
	return out
}

func CardsFromDTO(dtos []CardDTO) ([]models.Card, error) {
	out := make([]models.Card, 0, len(dtos))
	for _, d := range dtos {
		due, err := time.Parse(dateLayout, d.DueDate)
		if err != nil {
			return nil, fmt.Errorf("card %s: due_date %q: %w", d.ID, d.DueDate, err)
		}
		txns := make([]models.Transaction, 0, len(d.Transactions))
		for _, t := range d.Transactions {
			date, err := time.Parse(dateLayout, t.Date)
			if err != nil {
				return nil, fmt.Errorf("transaction %s: date %q: %w", t.ID, t.Date, err)
			}
			txns = append(txns, models.Transaction{
				ID:       t.ID,
				Name:     t.Name,
				Date:     date,
				Amount:   t.Amount,
				Category: t.Category,
			})
		}
		out = append(out, models.Card{
			ID:               d.ID,
			Bank:             d.Bank,
			CardNumberMasked: d.CardNumberMasked,
			TotalDue:         d.TotalDue,
			MinimumDue:       d.MinimumDue,
			DueDate:          due,
			CreditLimit:      d.CreditLimit,
			AvailableCredit:  d.AvailableCredit,
			Transactions:     txns,
		})
	}
	return out, nil
}

func HistoryToDTO(records []models.PaymentRecord) []PaymentRecordDTO {
	out := make([]PaymentRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, PaymentRecordDTO{
			ID:               r.ID,
			TransactionID:    r.TransactionID,
			CardBank:         r.CardBank,
			CardNumberMasked: r.CardNumberMasked,
			Amount:           r.Amount,
			UPIMethod:        string(r.UPIMethod),
			Date:             r.Date.Format(time.RFC3339),
			Status:           string(r.Status),
		})
	}
	return out
}

func HistoryFromDTO(dtos []PaymentRecordDTO) ([]models.PaymentRecord, error) {
	out := make([]models.PaymentRecord, 0, len(dtos))
	for _, d := range dtos {
		date, err := time.Parse(time.RFC3339, d.Date)
		if err != nil {
			return nil, fmt.Errorf("payment %s: date %q: %w", d.ID, d.Date, err)
		}
		out = append(out, models.PaymentRecord{
			ID:               d.ID,
			TransactionID:    d.TransactionID,
			CardBank:         d.CardBank,
			CardNumberMasked: d.CardNumberMasked,
			Amount:           d.Amount,
			UPIMethod:        models.UPIMethod(d.UPIMethod),
			Date:             date,
			Status:           models.PaymentStatus(d.Status),
		})
	}
	return out, nil
}
