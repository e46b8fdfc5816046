// internal/core/services/request.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/ports"
)

// RequestService handles public item requests
type RequestService struct {
	backend ports.BackendAdapter
	access  ports.AccessService
	logger  *slog.Logger
}

var _ ports.RequestService = (*RequestService)(nil)

// NewRequestService creates a new request service
func NewRequestService(backend ports.BackendAdapter, access ports.AccessService, logger *slog.Logger) *RequestService {
	return &RequestService{
		backend: backend,
		access:  access,
		logger:  logger.With(slog.String("service", "requests")),
	}
}

// Create submits a request. The stored status is always pending.
func (s *RequestService) Create(ctx context.Context, req domain.ItemRequest) (*domain.ItemRequest, error) {
	if err := authorize(ctx, s.access, domain.ActionSubmitRequest); err != nil {
		return nil, err
	}
	if err := req.PrepareForStorage(); err != nil {
		return nil, err
	}

	created, err := s.backend.CreateItemRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create item request: %w", err)
	}

	s.logger.InfoContext(ctx, "item request submitted",
		slog.String("id", created.ID),
		slog.String("scout_group", created.ScoutGroup),
		slog.Int("quantity", created.Quantity))
	return created, nil
}

// List returns requests newest first. Admin only.
func (s *RequestService) List(ctx context.Context, filter domain.RequestFilter) ([]domain.ItemRequest, error) {
	if err := authorize(ctx, s.access, domain.ActionManageRequests); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "invalid status: "+string(filter.Status))
	}
	return s.backend.ListItemRequests(ctx, filter)
}

// UpdateStatus moves a request between pending and resolved. Admin only.
func (s *RequestService) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.ItemRequest, error) {
	if err := authorize(ctx, s.access, domain.ActionManageRequests); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "invalid status: "+string(status))
	}

	updated, err := s.backend.UpdateItemRequestStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update item request: %w", err)
	}

	s.logger.InfoContext(ctx, "item request status changed",
		slog.String("id", id),
		slog.String("status", string(status)))
	return updated, nil
}
