package models

import "time"

// Expense is a single logged outgoing. Its category is advisory: it is not
// cross-checked against the budget's category limits.
type Expense struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Title    string          `json:"title"`
	Amount   float64         `json:"amount"`
	Category ExpenseCategory `json:"category"`
	Date     time.Time       `json:"date"`
}
