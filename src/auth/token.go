package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"savr-server/src/models"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// Verification failures. Callers should collapse all of these into a uniform
// authentication error before anything reaches a client; the distinction
// exists for logging only.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
)

// Claims is the identity a token carries.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies identity claims as HS256 JWTs. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec builds a codec from a base64-encoded symmetric secret. The decoded
// key never leaves the codec and must never be logged.
func NewCodec(base64Secret string, ttl time.Duration) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint produces a signed token for the given identity, issued now and
// expiring after the configured TTL.
func (c *Codec) Mint(userID int64, role models.Role) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Verify checks signature integrity and expiry and returns the embedded
// claims. Malformed input is an error result, never a panic.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
