// internal/adapters/db/withdrawal_repository.go
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

var withdrawalColumns = []string{
	"id::text", "item_id", "item_descricao", "user_id", "quantity",
	"COALESCE(notes, '')", "status", "created_at", "updated_at",
}

// withdrawalRepository implements ports.WithdrawalRepository
type withdrawalRepository struct {
	db     ports.Database
	logger *slog.Logger
	now    func() time.Time
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db ports.Database, logger *slog.Logger) ports.WithdrawalRepository {
	return &withdrawalRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "withdrawals")),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func scanWithdrawal(row pgx.Row) (domain.Withdrawal, error) {
	var (
		w      domain.Withdrawal
		status string
	)
	err := row.Scan(&w.ID, &w.ItemID, &w.ItemDescription, &w.UserID, &w.Quantity,
		&w.Notes, &status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return w, err
	}
	parsed, err := vocab.ParseWithdrawalStatus(status)
	if err != nil {
		return w, fmt.Errorf("withdrawal %s: %w", w.ID, err)
	}
	w.Status = parsed
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}

func (r *withdrawalRepository) one(ctx context.Context, op, id, query string, args []interface{}) (*domain.Withdrawal, error) {
	w, err := scanWithdrawal(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("withdrawal", id)
		}
		return nil, classify(op, err)
	}
	return &w, nil
}

// Create implements ports.WithdrawalRepository
func (r *withdrawalRepository) Create(ctx context.Context, w domain.Withdrawal) (*domain.Withdrawal, error) {
	if w.Status == "" {
		w.Status = domain.WithdrawalRequested
	}
	status, err := vocab.WithdrawalStatus(w.Status)
	if err != nil {
		return nil, err
	}

	now := r.now()
	id := uuid.New().String()
	query, args, err := psql.Insert("material_withdrawals").
		Columns("id", "item_id", "item_descricao", "user_id", "quantity", "notes", "status", "created_at", "updated_at").
		Values(id, w.ItemID, w.ItemDescription, w.UserID, w.Quantity, nullableText(w.Notes), status, now, now).
		Suffix("RETURNING " + strings.Join(withdrawalColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	created, err := r.one(ctx, "create withdrawal", id, query, args)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "withdrawal recorded",
		slog.String("id", created.ID),
		slog.String("item_id", created.ItemID),
		slog.Int("quantity", created.Quantity))
	return created, nil
}

// FindByID implements ports.WithdrawalRepository
func (r *withdrawalRepository) FindByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	key, err := parseID("withdrawal", id)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(withdrawalColumns...).
		From("material_withdrawals").
		Where(squirrel.Eq{"id": key.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return r.one(ctx, "find withdrawal", id, query, args)
}

// List implements ports.WithdrawalRepository
func (r *withdrawalRepository) List(ctx context.Context, userID string) ([]domain.Withdrawal, error) {
	sb := psql.Select(withdrawalColumns...).From("material_withdrawals")
	if userID != "" {
		sb = sb.Where(squirrel.Eq{"user_id": userID})
	}

	query, args, err := sb.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list withdrawals", err)
	}

	withdrawals, err := collect(rows, scanWithdrawal)
	if err != nil {
		return nil, classify("scan withdrawals", err)
	}
	return withdrawals, nil
}

// Transition moves a withdrawal from one status to another. It matches no row,
// and returns NotFoundError, when the withdrawal is no longer in status from.
func (r *withdrawalRepository) Transition(ctx context.Context, id string, from, to domain.WithdrawalStatus) (*domain.Withdrawal, error) {
	fromLabel, err := vocab.WithdrawalStatus(from)
	if err != nil {
		return nil, err
	}
	label, err := vocab.WithdrawalStatus(to)
	if err != nil {
		return nil, err
	}
	key, err := parseID("withdrawal", id)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Update("material_withdrawals").
		Set("status", label).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"id": key.String(), "status": fromLabel}).
		Suffix("RETURNING " + strings.Join(withdrawalColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}
	return r.one(ctx, "update withdrawal status", id, query, args)
}
