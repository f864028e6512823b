package api

import (
	"net/http"

	"savr-server/src/auth"
	"savr-server/src/budget"
	"savr-server/src/handlers"
	"savr-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Routes that skip session authentication. Everything else requires a valid,
// unrevoked bearer token.
var publicPaths = map[string]bool{
	"/health":        true,
	"/auth/register": true,
	"/auth/login":    true,
	"/auth/logout":   true,
}

func NewRouter(pool *pgxpool.Pool, codec *auth.Codec, revocations auth.RevocationStore, engine *budget.Engine) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.SessionAuth(codec, revocations, publicPaths))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/register", handlers.Register(pool))
	r.Post("/auth/login", handlers.Login(pool, codec))
	r.Post("/auth/logout", handlers.Logout(codec, revocations))

	// Budget
	r.Route("/budget", func(r chi.Router) {
		r.Post("/", handlers.CreateBudget(engine))
		r.Get("/", handlers.GetBudget(engine))
		r.Delete("/", handlers.DeleteBudget(engine))
		r.Put("/limit", handlers.AdjustTotalLimit(engine))
		r.Put("/category-limit", handlers.AdjustCategoryLimit(engine))
		r.Delete("/category-limit/{category}", handlers.RemoveCategoryLimit(engine))
	})

	// Expenses
	r.Route("/expenses", func(r chi.Router) {
		r.Post("/", handlers.CreateExpense(pool))
		r.Get("/", handlers.GetAllExpenses(pool))
		r.Get("/category/{category}", handlers.GetExpensesByCategory(pool))
		r.Delete("/{expense_id}", handlers.DeleteExpense(pool))
		r.Delete("/", handlers.DeleteAllExpenses(pool))
		r.Post("/import", handlers.ImportExpensesCSV(pool))
	})

	// Admin
	r.With(middleware.RequireAdmin).Group(func(r chi.Router) {
		r.Get("/users", handlers.GetAllUsers(pool))
		r.Get("/users/{user_id}", handlers.GetUser(pool))
		r.Delete("/users", handlers.DeleteAllUsers(pool))
	})

	return r
}
