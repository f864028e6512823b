package db

import (
	"context"
	"fmt"
	"time"

	"savr-server/src/apperr"
	"savr-server/src/db"
	"savr-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func expenseCacheKey(userID int64) string {
	return fmt.Sprintf("expenses:%d", userID)
}

func CreateExpense(ctx context.Context, pool *pgxpool.Pool, expense *models.Expense) (*models.Expense, error) {
	query := `
		INSERT INTO expenses (user_id, title, amount, category, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	e := *expense
	err := pool.QueryRow(ctx, query, e.UserID, e.Title, e.Amount, string(e.Category), e.Date).
		Scan(&e.ID)
	if err != nil {
		return nil, err
	}
	db.DelExpenseCache(expenseCacheKey(e.UserID))
	return &e, nil
}

func GetAllExpensesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Expense, error) {
	cacheKey := expenseCacheKey(userID)
	if cached, found := db.Cache.Get(cacheKey); found {
		if expenses, ok := cached.([]models.Expense); ok {
			return expenses, nil
		}
	}

	query := `
		SELECT id, user_id, title, amount, category, date
		FROM expenses WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var category string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &category, &e.Date); err != nil {
			return nil, err
		}
		e.Category = models.ExpenseCategory(category)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.SetExpenseCache(cacheKey, expenses)
	return expenses, nil
}

func GetExpensesByCategory(ctx context.Context, pool *pgxpool.Pool, userID int64, category models.ExpenseCategory) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, title, amount, category, date
		FROM expenses WHERE user_id = $1 AND category = $2
		ORDER BY date DESC, id DESC
	`
	rows, err := pool.Query(ctx, query, userID, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var cat string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &cat, &e.Date); err != nil {
			return nil, err
		}
		e.Category = models.ExpenseCategory(cat)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func DeleteExpense(ctx context.Context, pool *pgxpool.Pool, userID, expenseID int64) error {
	// Ownership is enforced in the WHERE clause; another user's expense id
	// behaves exactly like a missing one.
	cmd, err := pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, expenseID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("expense", "expense not found")
	}
	db.DelExpenseCache(expenseCacheKey(userID))
	return nil
}

func DeleteAllExpenses(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	_, err := pool.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	db.DelExpenseCache(expenseCacheKey(userID))
	return nil
}

// ExpenseExists checks for an identical prior entry, used to dedupe bulk
// imports that are re-run on overlapping files.
func ExpenseExists(ctx context.Context, pool *pgxpool.Pool, userID int64, date time.Time, amount float64, title string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM expenses
			WHERE user_id = $1 AND date = $2 AND amount = $3 AND title = $4
		)
	`, userID, date, amount, title).Scan(&exists)
	return exists, err
}
