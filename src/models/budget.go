package models

import "time"

// Budget is one user's spending plan: the income it is based on, the overall
// spending limit, and the per-category allocations carved out of that limit.
// A user has at most one budget.
type Budget struct {
	ID             int64                       `json:"id"`
	UserID         int64                       `json:"user_id"`
	TotalIncome    float64                     `json:"total_income"`
	TotalLimit     float64                     `json:"total_limit"`
	CategoryLimits map[ExpenseCategory]float64 `json:"category_limits"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// CategoryLimitSum returns the total already allocated across categories,
// optionally excluding one category (used when that category is about to be
// overwritten).
func (b *Budget) CategoryLimitSum(exclude ...ExpenseCategory) float64 {
	var sum float64
	for cat, limit := range b.CategoryLimits {
		skip := false
		for _, ex := range exclude {
			if cat == ex {
				skip = true
				break
			}
		}
		if !skip {
			sum += limit
		}
	}
	return sum
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the engine's working state.
func (b *Budget) Clone() *Budget {
	cp := *b
	cp.CategoryLimits = make(map[ExpenseCategory]float64, len(b.CategoryLimits))
	for cat, limit := range b.CategoryLimits {
		cp.CategoryLimits[cat] = limit
	}
	return &cp
}
