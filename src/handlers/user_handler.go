package handlers

import (
	"log"
	"net/http"
	"strconv"

	db "savr-server/src/db/sql"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Admin-only user management endpoints.

func GetAllUsers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := db.GetAllUsers(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get users: %v", err)
			http.Error(w, "failed to get users", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func GetUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userIDStr := chi.URLParam(r, "user_id")
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid user id param: %s", userIDStr)
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user %d: %v", userID, err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func DeleteAllUsers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.DeleteAllUsers(r.Context(), pool); err != nil {
			log.Printf("ERROR: Failed to delete users: %v", err)
			http.Error(w, "failed to delete users", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted all users")
		writeJSON(w, http.StatusOK, map[string]string{"message": "all users deleted"})
	}
}
