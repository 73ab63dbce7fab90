// Package token issues and validates the access/refresh JWT pair used by the API.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalid   = errors.New("token is invalid or expired")
	ErrWrongType = errors.New("token has wrong type")
)

// Claims carried by both token types.
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType Type   `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair is what the token endpoint hands out.
type Pair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type Manager struct {
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

func NewManager(secret string, accessLifetime, refreshLifetime time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required but was empty")
	}

	return &Manager{
		secret:          []byte(secret),
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		now:             time.Now,
	}, nil
}

// IssuePair creates a fresh refresh token and an access token for userID.
func (m *Manager) IssuePair(userID uuid.UUID) (*Pair, error) {
	refresh, err := m.sign(userID.String(), TypeRefresh, m.refreshLifetime)
	if err != nil {
		return nil, err
	}

	access, err := m.sign(userID.String(), TypeAccess, m.accessLifetime)
	if err != nil {
		return nil, err
	}

	return &Pair{Refresh: refresh, Access: access}, nil
}

// Refresh validates a refresh token and returns a new access token for the same user.
func (m *Manager) Refresh(refreshToken string) (string, error) {
	claims, err := m.Validate(refreshToken, TypeRefresh)
	if err != nil {
		return "", err
	}

	return m.sign(claims.UserID, TypeAccess, m.accessLifetime)
}

// Validate parses tokenString and checks its signature, expiry and type.
func (m *Manager) Validate(tokenString string, want Type) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	if claims.TokenType != want {
		return nil, ErrWrongType
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: bad user_id claim", ErrInvalid)
	}

	return claims, nil
}

func (m *Manager) sign(userID string, tokenType Type, lifetime time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
