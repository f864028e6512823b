package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"savr-server/src/budget"
	"savr-server/src/middleware"
	"savr-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBudgetStore struct {
	mu      sync.Mutex
	budgets map[int64]*models.Budget
	nextID  int64
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{budgets: make(map[int64]*models.Budget), nextID: 1}
}

func (s *fakeBudgetStore) Load(ctx context.Context, userID int64) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[userID]
	if !ok {
		return nil, nil
	}
	return b.Clone(), nil
}

func (s *fakeBudgetStore) Save(ctx context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.nextID
		s.nextID++
	}
	s.budgets[b.UserID] = b.Clone()
	return nil
}

func (s *fakeBudgetStore) Delete(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[userID]; !ok {
		return false, nil
	}
	delete(s.budgets, userID)
	return true, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithIdentity(req.Context(), middleware.Identity{UserID: 7, Role: models.RoleUser})
	return req.WithContext(ctx)
}

func newBudgetRouter(engine *budget.Engine) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/budget", CreateBudget(engine))
	r.Get("/budget", GetBudget(engine))
	r.Delete("/budget", DeleteBudget(engine))
	r.Put("/budget/limit", AdjustTotalLimit(engine))
	r.Put("/budget/category-limit", AdjustCategoryLimit(engine))
	r.Delete("/budget/category-limit/{category}", RemoveCategoryLimit(engine))
	return r
}

func TestBudgetHandlersStatusCodes(t *testing.T) {
	engine := budget.NewEngine(newFakeBudgetStore())
	router := newBudgetRouter(engine)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(method, target, body))
		return rec
	}

	// Get before create.
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/budget", "").Code)

	// Invalid create payloads.
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/budget", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/budget", `{"total_income":5000,"total_limit":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/budget", `{"total_income":1000,"total_limit":2000}`).Code)

	// Successful create, duplicate conflicts.
	rec := do(http.MethodPost, "/budget", `{"total_income":5000,"total_limit":1200}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_limit":1200`)
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/budget", `{"total_income":5000,"total_limit":1200}`).Code)

	// Category limit flow.
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/budget/category-limit", `{"category":"Food","limit":800}`).Code)
	rec = do(http.MethodPut, "/budget/category-limit", `{"category":"Transport","limit":500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "total limit")

	// Total limit flow.
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/budget/limit", `{"limit":1000}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, "/budget/limit", `{"limit":700}`).Code)

	// Category removal.
	assert.Equal(t, http.StatusOK, do(http.MethodDelete, "/budget/category-limit/Food", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/budget/category-limit/Food", "").Code)

	// Budget deletion.
	assert.Equal(t, http.StatusOK, do(http.MethodDelete, "/budget", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/budget", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/budget", "").Code)
}

func TestBudgetHandlersRejectUnknownCategory(t *testing.T) {
	engine := budget.NewEngine(newFakeBudgetStore())
	router := newBudgetRouter(engine)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(method, target, body))
		return rec
	}

	require.Equal(t, http.StatusCreated,
		do(http.MethodPost, "/budget", `{"total_income":5000,"total_limit":1200}`).Code)

	// A made-up category must fail outright, not land as an NA limit.
	rec := do(http.MethodPut, "/budget/category-limit", `{"category":"GADGETS","limit":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown category")

	got, err := engine.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, got.CategoryLimits)

	rec = do(http.MethodDelete, "/budget/category-limit/GADGETS", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown category")
}

func TestBudgetOwnershipComesFromSession(t *testing.T) {
	engine := budget.NewEngine(newFakeBudgetStore())
	router := newBudgetRouter(engine)

	// A payload that tries to smuggle another owner's id is ignored; the
	// budget lands on the session user.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/budget",
		`{"user_id":999,"total_income":5000,"total_limit":1200}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	got, err := engine.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)

	_, err = engine.Get(context.Background(), 999)
	assert.Error(t, err)
}
