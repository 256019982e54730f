// Package summary aggregates expense records into day, week and month
// reports, compares actual spending against the configured budget
// percentages and renders the Vietnamese report messages.
package summary

import (
	"github.com/ngthanhdat199/cashpilot/internal/category"
	"github.com/ngthanhdat199/cashpilot/internal/domain"
)

// Totals is a per-category breakdown of a record set. Zero-amount
// records are excluded everywhere.
type Totals struct {
	Expenses []domain.Record
	Total    int64

	ByCategory map[category.Category]int64

	// Essential covers food, travel, rent and uncategorized spending.
	Essential int64
	// Investment covers both investment buckets.
	Investment int64
	// FoodAndTravel groups food plus gas for budget comparison.
	FoodAndTravel int64
}

// Summarize classifies each record and accumulates category totals.
func Summarize(records []domain.Record) Totals {
	t := Totals{ByCategory: map[category.Category]int64{}}
	for _, r := range records {
		if r.Amount == 0 {
			continue
		}
		t.Expenses = append(t.Expenses, r)
		t.Total += r.Amount

		cat := category.Classify(r.Note)
		t.ByCategory[cat] += r.Amount
		if cat.Essential() {
			t.Essential += r.Amount
		}
		if cat.InvestmentGroup() {
			t.Investment += r.Amount
		}
	}
	t.FoodAndTravel = t.ByCategory[category.Food] + t.ByCategory[category.Gas]
	return t
}

// Count is the number of non-zero expenses.
func (t Totals) Count() int {
	return len(t.Expenses)
}
