package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"savr-server/src/apperr"
	"savr-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id int64) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`
	err := pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user", "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`
	err := pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user", "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func CreateUser(ctx context.Context, pool *pgxpool.Pool, email string, passwordHash []byte, role models.Role) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	user := models.User{
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
	err := pool.QueryRow(ctx, query, user.Email, passwordHash, string(role)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, apperr.Conflict("email is already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func GetAllUsers(ctx context.Context, pool *pgxpool.Pool) ([]models.User, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func DeleteAllUsers(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}
