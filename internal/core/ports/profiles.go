// internal/core/ports/profiles.go
package ports

import (
	"context"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// ProfileRepository persists staff profiles keyed by identity id.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	// Upsert creates the profile for an identity or refreshes its name and email.
	Upsert(ctx context.Context, profile domain.Profile) (*domain.Profile, error)
	UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// WithdrawalRepository persists stock withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, w domain.Withdrawal) (*domain.Withdrawal, error)
	FindByID(ctx context.Context, id string) (*domain.Withdrawal, error)
	// List returns withdrawals newest first. An empty userID lists everyone's.
	List(ctx context.Context, userID string) ([]domain.Withdrawal, error)
	// Transition changes the status only if it is still from; otherwise NotFoundError.
	Transition(ctx context.Context, id string, from, to domain.WithdrawalStatus) (*domain.Withdrawal, error)
}
