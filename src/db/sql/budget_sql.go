package db

import (
	"context"
	"errors"

	"savr-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetStore persists budget aggregates in Postgres. Save and Delete run in
// a transaction so the budget row and its category-limit rows always change
// as one unit.
type BudgetStore struct {
	pool *pgxpool.Pool
}

func NewBudgetStore(pool *pgxpool.Pool) *BudgetStore {
	return &BudgetStore{pool: pool}
}

func (s *BudgetStore) Load(ctx context.Context, userID int64) (*models.Budget, error) {
	query := `
		SELECT id, user_id, total_income, total_limit, created_at, updated_at
		FROM budgets WHERE user_id = $1
	`
	var b models.Budget
	err := s.pool.QueryRow(ctx, query, userID).
		Scan(&b.ID, &b.UserID, &b.TotalIncome, &b.TotalLimit, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b.CategoryLimits = make(map[models.ExpenseCategory]float64)
	rows, err := s.pool.Query(ctx, `
		SELECT category, category_limit
		FROM budget_category_limits WHERE budget_id = $1
	`, b.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var limit float64
		if err := rows.Scan(&category, &limit); err != nil {
			return nil, err
		}
		b.CategoryLimits[models.ExpenseCategory(category)] = limit
	}
	return &b, rows.Err()
}

func (s *BudgetStore) Save(ctx context.Context, budget *models.Budget) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO budgets (user_id, total_income, total_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_income = EXCLUDED.total_income,
		    total_limit = EXCLUDED.total_limit,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, budget.UserID, budget.TotalIncome, budget.TotalLimit).
		Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return err
	}

	// Replace the allocation rows wholesale; the aggregate is small and this
	// keeps the write path identical for insert and update.
	if _, err := tx.Exec(ctx, `DELETE FROM budget_category_limits WHERE budget_id = $1`, budget.ID); err != nil {
		return err
	}
	for category, limit := range budget.CategoryLimits {
		_, err := tx.Exec(ctx, `
			INSERT INTO budget_category_limits (budget_id, category, category_limit)
			VALUES ($1, $2, $3)
		`, budget.ID, string(category), limit)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *BudgetStore) Delete(ctx context.Context, userID int64) (bool, error) {
	// Category limits go with the budget via ON DELETE CASCADE.
	cmd, err := s.pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
