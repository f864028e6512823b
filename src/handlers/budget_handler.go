package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"savr-server/src/budget"
	"savr-server/src/middleware"
	"savr-server/src/models"

	"github.com/go-chi/chi/v5"
)

// The budget handlers never take an owner id from the payload; the session
// identity is the only key used to address a budget.

func CreateBudget(engine *budget.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		var req struct {
			TotalIncome float64 `json:"total_income"`
			TotalLimit  float64 `json:"total_limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", identity.UserID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		created, err := engine.Create(r.Context(), identity.UserID, req.TotalIncome, req.TotalLimit)
		if err != nil {
			log.Printf("ERROR: Failed to create budget for user %d: %v", identity.UserID, err)
			writeError(w, err)
			return
		}
		log.Printf("INFO: Created budget id %d for user %d", created.ID, identity.UserID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetBudget(engine *budget.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		b, err := engine.Get(r.Context(), identity.UserID)
		if err != nil {
			log.Printf("ERROR: Failed to get budget for user %d: %v", identity.UserID, err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func DeleteBudget(engine *budget.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		if err := engine.Delete(r.Context(), identity.UserID); err != nil {
			log.Printf("ERROR: Failed to delete budget for user %d: %v", identity.UserID, err)
			writeError(w, err)
			return
		}
		log.Printf("INFO: Deleted budget for user %d", identity.UserID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}

func AdjustTotalLimit(engine *budget.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		var req struct {
			Limit float64 `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode total limit request body for user %d: %v", identity.UserID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := engine.AdjustTotalLimit(r.Context(), identity.UserID, req.Limit)
		if err != nil {
			log.Printf("ERROR: Failed to adjust total limit for user %d: %v", identity.UserID, err)
			writeError(w, err)
			return
		}
		log.Printf("INFO: Adjusted total limit to %.2f for user %d", req.Limit, identity.UserID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func AdjustCategoryLimit(engine *budget.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		var req struct {
			Category string  `json:"category"`
			Limit    float64 `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode category limit request body for user %d: %v", identity.UserID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		category, ok := models.ParseCategory(req.Category)
		if !ok {
			log.Printf("ERROR: Unknown category %q in category limit request for user %d", req.Category, identity.UserID)
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		updated, err := engine.AdjustCategoryLimit(r.Context(), identity.UserID, category, req.Limit)
		if err != nil {
			log.Printf("ERROR: Failed to adjust %s limit for user %d: %v", category, identity.UserID, err)
			writeError(w, err)
			return
		}
		log.Printf("INFO: Adjusted %s limit to %.2f for user %d", category, req.Limit, identity.UserID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func RemoveCategoryLimit(engine *budget.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFromContext(r.Context())
		category, ok := models.ParseCategory(chi.URLParam(r, "category"))
		if !ok {
			log.Printf("ERROR: Unknown category %q in remove limit request for user %d", chi.URLParam(r, "category"), identity.UserID)
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}

		updated, err := engine.RemoveCategoryLimit(r.Context(), identity.UserID, category)
		if err != nil {
			log.Printf("ERROR: Failed to remove %s limit for user %d: %v", category, identity.UserID, err)
			writeError(w, err)
			return
		}
		log.Printf("INFO: Removed %s limit for user %d", category, identity.UserID)
		writeJSON(w, http.StatusOK, updated)
	}
}
