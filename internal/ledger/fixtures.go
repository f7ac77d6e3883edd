package ledger

import (
	"time"

	"github.com/google/uuid"

	"cardpay-go/internal/models"
)

// SeedCards builds the demo card set used when the store is empty.
// Due dates and transaction dates are placed relative to now.
func SeedCards(now time.Time) []models.Card {
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	return []models.Card{
		{
			ID:               uuid.NewString(),
			Bank:             "HDFC Bank",
			CardNumberMasked: models.MaskCardNumber("4532 1234 5678 9012"),
			TotalDue:         45678,
			MinimumDue:       5000,
			DueDate:          day(9),
			CreditLimit:      200000,
			AvailableCredit:  154322,
			Transactions: []models.Transaction{
				{ID: uuid.NewString(), Name: "Amazon.in", Date: day(-5), Amount: 3499, Category: "Shopping"},
				{ID: uuid.NewString(), Name: "Swiggy", Date: day(-4), Amount: 850, Category: "Food"},
				{ID: uuid.NewString(), Name: "Netflix", Date: day(-3), Amount: 649, Category: "Entertainment"},
				{ID: uuid.NewString(), Name: "Uber", Date: day(-1), Amount: 380, Category: "Transport"},
			},
		},
		{
			ID:               uuid.NewString(),
			Bank:             "SBI Card",
			CardNumberMasked: models.MaskCardNumber("5412 3456 7890 1234"),
			TotalDue:         23450,
			MinimumDue:       2500,
			DueDate:          day(12),
			CreditLimit:      150000,
			AvailableCredit:  126550,
			Transactions: []models.Transaction{
				{ID: uuid.NewString(), Name: "Myntra", Date: day(-8), Amount: 4200, Category: "Shopping"},
				{ID: uuid.NewString(), Name: "BigBasket", Date: day(-6), Amount: 2800, Category: "Shopping"},
				{ID: uuid.NewString(), Name: "BookMyShow", Date: day(-5), Amount: 650, Category: "Entertainment"},
			},
		},
		{
			ID:               uuid.NewString(),
			Bank:             "ICICI Bank",
			CardNumberMasked: models.MaskCardNumber("6011 9012 3456 7890"),
			TotalDue:         67890,
			MinimumDue:       7500,
			DueDate:          day(6),
			CreditLimit:      300000,
			AvailableCredit:  232110,
			Transactions: []models.Transaction{
				{ID: uuid.NewString(), Name: "Flipkart", Date: day(-11), Amount: 15600, Category: "Shopping"},
				{ID: uuid.NewString(), Name: "Apple Store", Date: day(-9), Amount: 28999, Category: "Shopping"},
				{ID: uuid.NewString(), Name: "Starbucks", Date: day(-4), Amount: 750, Category: "Food"},
			},
		},
	}
}
