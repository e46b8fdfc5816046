package domain

import (
	"context"
	"time"
)

// Role is the access tier of a staff member
type Role string

const (
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role belongs to its domain.
func (r Role) Valid() bool {
	return r == RoleOperator || r == RoleAdmin
}

// Satisfies reports whether r grants at least the required tier.
func (r Role) Satisfies(required Role) bool {
	if required == RoleAdmin {
		return r == RoleAdmin
	}
	return r.Valid()
}

// Profile links an authenticated identity to its role.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller as supplied by the identity provider.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

type identityKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
