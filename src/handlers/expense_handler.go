package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"savr-server/src/apperr"
	db "savr-server/src/db/sql"
	"savr-server/src/middleware"
	"savr-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const csvDateLayout = "2/01/2006"

func CreateExpense(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		var req struct {
			Title    string  `json:"title"`
			Amount   float64 `json:"amount"`
			Category string  `json:"category"`
			Date     string  `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create expense request body for user %d: %v", identity.UserID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		expense, err := buildExpense(identity.UserID, req.Title, req.Amount, req.Category, req.Date)
		if err != nil {
			log.Printf("ERROR: Invalid expense for user %d: %v", identity.UserID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := db.CreateExpense(r.Context(), pool, expense)
		if err != nil {
			log.Printf("ERROR: Failed to create expense for user %d: %v", identity.UserID, err)
			http.Error(w, "failed to create expense", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created expense id %d for user %d, category %s", created.ID, identity.UserID, created.Category)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllExpenses(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		expenses, err := db.GetAllExpensesForUser(r.Context(), pool, identity.UserID)
		if err != nil {
			log.Printf("ERROR: Failed to get expenses for user %d: %v", identity.UserID, err)
			http.Error(w, "failed to get expenses", http.StatusInternalServerError)
			return
		}
		if expenses == nil {
			expenses = []models.Expense{}
		}
		writeJSON(w, http.StatusOK, expenses)
	}
}

func GetExpensesByCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		category := models.CategoryFromString(chi.URLParam(r, "category"))
		expenses, err := db.GetExpensesByCategory(r.Context(), pool, identity.UserID, category)
		if err != nil {
			log.Printf("ERROR: Failed to get %s expenses for user %d: %v", category, identity.UserID, err)
			http.Error(w, "failed to get expenses", http.StatusInternalServerError)
			return
		}
		if expenses == nil {
			expenses = []models.Expense{}
		}
		writeJSON(w, http.StatusOK, expenses)
	}
}

func DeleteExpense(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		expenseIDStr := chi.URLParam(r, "expense_id")
		expenseID, err := strconv.ParseInt(expenseIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid expense id param: %s", expenseIDStr)
			http.Error(w, "invalid expense id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteExpense(r.Context(), pool, identity.UserID, expenseID); err != nil {
			log.Printf("ERROR: Failed to delete expense id %d for user %d: %v", expenseID, identity.UserID, err)
			writeError(w, err)
			return
		}
		log.Printf("INFO: Deleted expense id %d for user %d", expenseID, identity.UserID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
	}
}

func DeleteAllExpenses(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		if err := db.DeleteAllExpenses(r.Context(), pool, identity.UserID); err != nil {
			log.Printf("ERROR: Failed to delete expenses for user %d: %v", identity.UserID, err)
			http.Error(w, "failed to delete expenses", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted all expenses for user %d", identity.UserID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "expenses deleted"})
	}
}

// expenseImportStore is the slice of the expense store the CSV importer
// needs: a dedupe probe and an insert.
type expenseImportStore struct {
	exists func(ctx context.Context, userID int64, date time.Time, amount float64, title string) (bool, error)
	create func(ctx context.Context, expense *models.Expense) error
}

// ImportExpensesCSV bulk-loads expenses from an uploaded CSV. Columns are
// date (d/MM/yyyy), amount, title; the header row and malformed lines are
// skipped, and rows identical to an existing expense are not re-inserted.
func ImportExpensesCSV(pool *pgxpool.Pool) http.HandlerFunc {
	store := expenseImportStore{
		exists: func(ctx context.Context, userID int64, date time.Time, amount float64, title string) (bool, error) {
			return db.ExpenseExists(ctx, pool, userID, date, amount, title)
		},
		create: func(ctx context.Context, expense *models.Expense) error {
			_, err := db.CreateExpense(ctx, pool, expense)
			return err
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())

		file, _, err := r.FormFile("file")
		if err != nil {
			log.Printf("ERROR: Missing file in expense import for user %d: %v", identity.UserID, err)
			http.Error(w, "missing csv file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		imported, skipped, err := importExpenses(r.Context(), identity.UserID, file, store)
		if err != nil {
			log.Printf("ERROR: Expense import failed for user %d: %v", identity.UserID, err)
			if apperr.IsValidation(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
			} else {
				http.Error(w, "failed to import expenses", http.StatusInternalServerError)
			}
			return
		}

		log.Printf("INFO: Imported %d expenses (%d skipped) for user %d", imported, skipped, identity.UserID)
		writeJSON(w, http.StatusOK, map[string]int{"imported": imported, "skipped": skipped})
	}
}

// importExpenses reads CSV rows from src and inserts the well-formed,
// not-yet-seen ones. It reports how many rows were inserted and how many
// were skipped as malformed or duplicate.
func importExpenses(ctx context.Context, userID int64, src io.Reader, store expenseImportStore) (imported, skipped int, err error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	firstLine := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, skipped, apperr.Validation("failed to read csv file")
		}
		if firstLine {
			firstLine = false
			continue
		}
		if len(record) < 3 {
			skipped++
			continue
		}

		date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			log.Printf("INFO: Skipping csv line with bad date %q for user %d", record[0], userID)
			skipped++
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			log.Printf("INFO: Skipping csv line with bad amount %q for user %d", record[1], userID)
			skipped++
			continue
		}
		title := strings.TrimSpace(record[2])

		exists, err := store.exists(ctx, userID, date, amount, title)
		if err != nil {
			return imported, skipped, err
		}
		if exists {
			skipped++
			continue
		}

		expense, err := buildExpense(userID, title, amount, "", date.Format(time.DateOnly))
		if err != nil {
			skipped++
			continue
		}
		if err := store.create(ctx, expense); err != nil {
			return imported, skipped, err
		}
		imported++
	}
	return imported, skipped, nil
}

// buildExpense validates and normalizes one expense. Unknown categories fall
// back to NA rather than failing; a future-dated expense is rejected.
func buildExpense(userID int64, title string, amount float64, category, dateStr string) (*models.Expense, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if amount <= 0 {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	date := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, apperr.Validation("date must be in YYYY-MM-DD format")
		}
		date = parsed
	}
	if date.After(time.Now()) {
		return nil, apperr.Validation("date cannot be in the future")
	}

	return &models.Expense{
		UserID:   userID,
		Title:    strings.TrimSpace(title),
		Amount:   amount,
		Category: models.CategoryFromString(category),
		Date:     date,
	}, nil
}
