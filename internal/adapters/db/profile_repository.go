// internal/adapters/db/profile_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

var profileColumns = []string{
	"id::text", "user_id", "COALESCE(full_name, '')", "COALESCE(email, '')", "role", "created_at", "updated_at",
}

// profileRepository implements ports.ProfileRepository
type profileRepository struct {
	db     ports.Database
	logger *slog.Logger
	now    func() time.Time
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db ports.Database, logger *slog.Logger) ports.ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "profiles")),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var (
		p    domain.Profile
		role string
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}
	parsed, err := vocab.ParseRole(role)
	if err != nil {
		return p, fmt.Errorf("profile %s: %w", p.UserID, err)
	}
	p.Role = parsed
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *profileRepository) one(ctx context.Context, op, userID, query string, args []interface{}) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("profile", userID)
		}
		return nil, classify(op, err)
	}
	return &p, nil
}

// FindByUserID implements ports.ProfileRepository
func (r *profileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return r.one(ctx, "find profile", userID, query, args)
}

// List implements ports.ProfileRepository
func (r *profileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list profiles", err)
	}

	profiles, err := collect(rows, scanProfile)
	if err != nil {
		return nil, classify("scan profiles", err)
	}
	return profiles, nil
}

// Upsert creates the profile or refreshes its name and email. The role of an
// existing profile is never changed here.
func (r *profileRepository) Upsert(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	role := profile.Role
	if !role.Valid() {
		role = domain.RoleOperator
	}
	label, err := vocab.Role(role)
	if err != nil {
		return nil, err
	}

	now := r.now()
	query, args, err := psql.Insert("profiles").
		Columns("id", "user_id", "full_name", "email", "role", "created_at", "updated_at").
		Values(uuid.New().String(), profile.UserID, nullableText(profile.FullName),
			nullableText(profile.Email), label, now, now).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			email = COALESCE(EXCLUDED.email, profiles.email),
			updated_at = EXCLUDED.updated_at
			RETURNING ` + strings.Join(profileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert: %w", err)
	}

	return r.one(ctx, "upsert profile", profile.UserID, query, args)
}

// UpdateRole implements ports.ProfileRepository
func (r *profileRepository) UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error) {
	label, err := vocab.Role(role)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Update("profiles").
		Set("role", label).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING " + strings.Join(profileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	p, err := r.one(ctx, "update profile role", userID, query, args)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "profile role updated",
		slog.String("user_id", userID),
		slog.String("role", string(role)))
	return p, nil
}

// CountByRole implements ports.ProfileRepository
func (r *profileRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	label, err := vocab.Role(role)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = $1`, label).Scan(&count); err != nil {
		return 0, classify("count profiles", err)
	}
	return count, nil
}
