package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"savr-server/src/auth"
	db "savr-server/src/db/sql"
	"savr-server/src/middleware"
	"savr-server/src/models"
	"savr-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.TrimSpace(req.Email)

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}

		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Email: %s", req.Email)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req.Email, hashedPassword, models.RoleUser)
		if err != nil {
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			writeError(w, err)
			return
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %d", user.Email, user.ID)

		writeJSON(w, http.StatusCreated, models.RegisterResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})
	}
}

func Login(pool *pgxpool.Pool, codec *auth.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, credentials.Email)
		if err != nil {
			log.Printf("ERROR: Failed to find user during login - Email: %s: %v", credentials.Email, err)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for email %s from IP %s",
				credentials.Email, r.RemoteAddr)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tokenString, err := codec.Mint(user.ID, user.Role)
		if err != nil {
			log.Printf("ERROR: Failed to generate token for user %s: %v", user.Email, err)
			http.Error(w, "error generating token", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful login - User: %s, ID: %d", user.Email, user.ID)

		writeJSON(w, http.StatusOK, map[string]string{
			"token": tokenString,
		})
	}
}

// Logout revokes the presented token. Revoking an already-invalid or
// already-revoked token is not an error; only a missing header is.
func Logout(codec *auth.Codec, revocations auth.RevocationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := middleware.BearerToken(r)
		if !ok {
			http.Error(w, "missing bearer token", http.StatusBadRequest)
			return
		}

		// Keep the blacklist entry alive only as long as the token itself.
		// If the token no longer verifies its expiry is unknown, so fall
		// back to the full configured lifetime.
		ttl := codec.TTL()
		if claims, err := codec.Verify(token); err == nil && claims.ExpiresAt != nil {
			if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
				ttl = remaining
			}
		}

		if err := revocations.Revoke(r.Context(), token, ttl); err != nil {
			log.Printf("ERROR: Failed to revoke token: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Token revoked via logout")
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}
