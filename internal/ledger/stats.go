package ledger

import (
	"sort"
	"time"

	"cardpay-go/internal/models"
)

// TaggedTransaction is a card transaction annotated with its owning
// card's bank name, for the dashboard feed.
type TaggedTransaction struct {
	models.Transaction
	CardBank string `json:"card_bank"`
}

type Stats struct {
	TotalDue              float64             `json:"total_due"`
	ActiveCardCount       int                 `json:"active_cards"`
	UpcomingPaymentsCount int                 `json:"upcoming_payments"`
	PaidThisMonth         float64             `json:"paid_this_month"`
	OverdueCards          []models.Card       `json:"overdue_cards"`
	UpcomingDueCards      []models.Card       `json:"upcoming_due_cards"`
	RecentTransactions    []TaggedTransaction `json:"recent_transactions"`
}

const recentTransactionLimit = 5

// Stats computes the dashboard figures from current state. Overdue and
// upcoming are computed predicates, not stored flags; all day arithmetic
// runs in the engine's configured location.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	s := Stats{ActiveCardCount: len(e.cards)}

	for _, c := range e.cards {
		s.TotalDue += c.TotalDue
		if c.TotalDue <= 0 {
			continue
		}
		du := e.daysUntil(now, c.DueDate)
		if du < 0 {
			s.OverdueCards = append(s.OverdueCards, c.Clone())
		}
		if du >= 0 && du <= 7 {
			s.UpcomingDueCards = append(s.UpcomingDueCards, c.Clone())
		}
		if du >= 0 && du <= 30 {
			s.UpcomingPaymentsCount++
		}
	}

	nowLocal := now.In(e.loc)
	for _, rec := range e.history {
		d := rec.Date.In(e.loc)
		if d.Year() == nowLocal.Year() && d.Month() == nowLocal.Month() {
			s.PaidThisMonth += rec.Amount
		}
	}

	var all []TaggedTransaction
	for _, c := range e.cards {
		for _, t := range c.Transactions {
			all = append(all, TaggedTransaction{Transaction: t, CardBank: c.Bank})
		}
	}
	// Stable sort keeps card order then insertion order as the
	// tie-break for equal dates.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	if len(all) > recentTransactionLimit {
		all = all[:recentTransactionLimit]
	}
	s.RecentTransactions = all

	return s
}

// daysUntil is the whole-day distance from the start of today to the
// start of d's day. Negative when d is in the past.
func (e *Engine) daysUntil(now, d time.Time) int {
	a := startOfDay(now, e.loc)
	b := startOfDay(d, e.loc)
	return int(b.Sub(a) / (24 * time.Hour))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
