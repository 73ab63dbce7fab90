package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
)

// Principal is the authenticated identity behind a request.
// A nil *Principal stands for an anonymous caller.
type Principal struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
}

// IsAuthenticated reports whether p refers to a real user.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != uuid.Nil
}

func SetPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal returns the principal stored in ctx, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(PrincipalKey).(*Principal)
	return p
}
