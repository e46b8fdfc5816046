// internal/core/services/access.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// AccessService resolves caller roles from profiles and enforces the access policy.
type AccessService struct {
	profiles ports.ProfileRepository
	roles    *expirable.LRU[string, domain.Role]
	claimMu  sync.Mutex
	logger   *slog.Logger
}

var _ ports.AccessService = (*AccessService)(nil)

// NewAccessService creates the access gate. Resolved roles are cached for ttl.
func NewAccessService(profiles ports.ProfileRepository, cacheSize int, ttl time.Duration, logger *slog.Logger) *AccessService {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	return &AccessService{
		profiles: profiles,
		roles:    expirable.NewLRU[string, domain.Role](cacheSize, nil, ttl),
		logger:   logger.With(slog.String("service", "access")),
	}
}

// Role returns the role of userID. Identities without a profile are operators.
func (s *AccessService) Role(ctx context.Context, userID string) (domain.Role, error) {
	if role, ok := s.roles.Get(userID); ok {
		return role, nil
	}

	role := domain.RoleOperator
	profile, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		role = profile.Role
	case domain.IsNotFound(err):
	default:
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}

	s.roles.Add(userID, role)
	return role, nil
}

// Authorize fails with an AuthorizationError unless the caller in ctx holds
// the role action requires.
func (s *AccessService) Authorize(ctx context.Context, action domain.Action) error {
	required := domain.RequiredRole(action)
	if required == domain.Public {
		return nil
	}

	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return &domain.AuthorizationError{Action: string(action), Required: required}
	}
	role, err := s.Role(ctx, id.UserID)
	if err != nil {
		return err
	}
	if !role.Satisfies(required) {
		s.logger.WarnContext(ctx, "access denied",
			slog.String("user_id", id.UserID),
			slog.String("action", string(action)),
			slog.String("role", string(role)))
		return &domain.AuthorizationError{Action: string(action), Required: required, Authenticated: true}
	}
	return nil
}

// Me returns the caller's profile, creating it on first sight.
func (s *AccessService) Me(ctx context.Context) (*domain.Profile, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, &domain.AuthorizationError{Action: "view profile", Required: domain.RoleOperator}
	}
	return s.ensureProfile(ctx, id)
}

func (s *AccessService) ensureProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	profile, err := s.profiles.Upsert(ctx, domain.Profile{
		UserID:   id.UserID,
		FullName: id.Name,
		Email:    id.Email,
		Role:     domain.RoleOperator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	s.roles.Add(profile.UserID, profile.Role)
	return profile, nil
}

// ListProfiles returns every profile. Admin only.
func (s *AccessService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	if err := s.Authorize(ctx, domain.ActionManageProfiles); err != nil {
		return nil, err
	}
	return s.profiles.List(ctx)
}

// SetRole changes the role of userID. Admin only.
func (s *AccessService) SetRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error) {
	if err := s.Authorize(ctx, domain.ActionManageProfiles); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "invalid role: "+string(role))
	}

	profile, err := s.profiles.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	s.roles.Remove(userID)

	s.logger.InfoContext(ctx, "role changed",
		slog.String("user_id", userID),
		slog.String("role", string(role)))
	return profile, nil
}

// ClaimAdmin promotes the caller to admin while the system has no admin.
func (s *AccessService) ClaimAdmin(ctx context.Context) (*domain.Profile, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, &domain.AuthorizationError{Action: "claim admin", Required: domain.RoleOperator}
	}

	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	admins, err := s.profiles.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return nil, &domain.AuthorizationError{Action: "claim admin", Required: domain.RoleAdmin, Authenticated: true}
	}

	if _, err := s.ensureProfile(ctx, id); err != nil {
		return nil, err
	}
	profile, err := s.profiles.UpdateRole(ctx, id.UserID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.roles.Remove(id.UserID)

	s.logger.InfoContext(ctx, "first admin claimed", slog.String("user_id", id.UserID))
	return profile, nil
}

// authorize returns nil for public actions without consulting the gate.
func authorize(ctx context.Context, access ports.AccessService, action domain.Action) error {
	if domain.RequiredRole(action) == domain.Public {
		return nil
	}
	return access.Authorize(ctx, action)
}
