// Package budget holds the invariant engine: the only writer of budget
// state. Every mutation loads the aggregate, validates the result, and saves
// it as one unit; nothing is persisted when validation fails.
package budget

import (
	"context"

	"savr-server/src/apperr"
	"savr-server/src/models"
)

// Store is the persistence boundary for budget aggregates. Load returns
// (nil, nil) when no budget exists for the user. Save upserts the aggregate
// and its category limits atomically; Delete removes both as one unit and
// reports whether anything was there.
type Store interface {
	Load(ctx context.Context, userID int64) (*models.Budget, error)
	Save(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, userID int64) (bool, error)
}

// Engine applies invariant-preserving mutations to budget aggregates.
// Mutations for the same user are serialized through a keyed lock so the
// read-validate-write sequence never interleaves; different users proceed in
// parallel.
type Engine struct {
	store Store
	locks *userLocks
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, locks: newUserLocks()}
}

// Create sets up a budget for the user. The total limit must fit within the
// income from the start, so the aggregate is never invalid even transiently.
func (e *Engine) Create(ctx context.Context, userID int64, totalIncome, totalLimit float64) (*models.Budget, error) {
	if totalIncome <= 0 {
		return nil, apperr.Validation("total income must be greater than zero")
	}
	if totalLimit <= 0 {
		return nil, apperr.Validation("total limit must be greater than zero")
	}
	if totalLimit > totalIncome {
		return nil, apperr.Validation("total limit cannot exceed total income")
	}

	unlock := e.locks.lock(userID)
	defer unlock()

	existing, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("budget already exists for this user")
	}

	budget := &models.Budget{
		UserID:         userID,
		TotalIncome:    totalIncome,
		TotalLimit:     totalLimit,
		CategoryLimits: make(map[models.ExpenseCategory]float64),
	}
	if err := e.store.Save(ctx, budget); err != nil {
		return nil, err
	}
	return budget.Clone(), nil
}

// Get returns a read-only snapshot of the user's budget.
func (e *Engine) Get(ctx context.Context, userID int64) (*models.Budget, error) {
	budget, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperr.NotFound("budget", "budget does not exist for this user")
	}
	return budget.Clone(), nil
}

// Delete removes the budget and all its category limits as one unit.
func (e *Engine) Delete(ctx context.Context, userID int64) error {
	unlock := e.locks.lock(userID)
	defer unlock()

	found, err := e.store.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("budget", "budget does not exist for this user")
	}
	return nil
}

// AdjustTotalLimit replaces the overall spending limit. A lowered limit is
// rejected if the existing category allocations no longer fit under it.
func (e *Engine) AdjustTotalLimit(ctx context.Context, userID int64, newLimit float64) (*models.Budget, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	budget, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperr.NotFound("budget", "budget does not exist for this user")
	}
	if newLimit <= 0 {
		return nil, apperr.Validation("total limit must be greater than zero")
	}
	if newLimit > budget.TotalIncome {
		return nil, apperr.Validation("total limit cannot exceed total income")
	}
	if sum := budget.CategoryLimitSum(); sum > newLimit {
		return nil, apperr.Validation("existing category limits (%.2f) would exceed the new total limit (%.2f)", sum, newLimit)
	}

	budget.TotalLimit = newLimit
	if err := e.store.Save(ctx, budget); err != nil {
		return nil, err
	}
	return budget.Clone(), nil
}

// AdjustCategoryLimit inserts or overwrites one category's allocation,
// keeping the sum of all allocations within the total limit.
func (e *Engine) AdjustCategoryLimit(ctx context.Context, userID int64, category models.ExpenseCategory, newLimit float64) (*models.Budget, error) {
	if !category.Valid() {
		return nil, apperr.Validation("unknown expense category %q", string(category))
	}
	if newLimit <= 0 {
		return nil, apperr.Validation("category limit must be greater than zero")
	}

	unlock := e.locks.lock(userID)
	defer unlock()

	budget, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperr.NotFound("budget", "budget does not exist for this user")
	}
	if others := budget.CategoryLimitSum(category); others+newLimit > budget.TotalLimit {
		return nil, apperr.Validation("category limit would exceed total limit (%.2f allocated, %.2f requested, %.2f total)",
			others, newLimit, budget.TotalLimit)
	}

	budget.CategoryLimits[category] = newLimit
	if err := e.store.Save(ctx, budget); err != nil {
		return nil, err
	}
	return budget.Clone(), nil
}

// RemoveCategoryLimit drops one category's allocation. A missing entry is a
// distinct not-found from a missing budget.
func (e *Engine) RemoveCategoryLimit(ctx context.Context, userID int64, category models.ExpenseCategory) (*models.Budget, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	budget, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperr.NotFound("budget", "budget does not exist for this user")
	}
	if _, ok := budget.CategoryLimits[category]; !ok {
		return nil, apperr.NotFound("category limit", "no limit set for category %s", category.DisplayName())
	}

	delete(budget.CategoryLimits, category)
	if err := e.store.Save(ctx, budget); err != nil {
		return nil, err
	}
	return budget.Clone(), nil
}
