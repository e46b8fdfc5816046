// internal/core/services/request_service_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/core/services"
	"github.com/escoteiros/scout-inventory/test/helpers"
	"github.com/escoteiros/scout-inventory/test/mocks"
)

func newRequestService(t *testing.T) (*services.RequestService, *mocks.MockBackendAdapter, *mocks.MockAccessService) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackendAdapter(ctrl)
	access := mocks.NewMockAccessService(ctrl)
	return services.NewRequestService(backend, access, helpers.TestLogger()), backend, access
}

func TestRequestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.ItemRequest
		stored  bool
		wantErr bool
	}{
		{
			name:   "anonymous_submission_is_stored_pending",
			req:    helpers.NewTestItemRequest(func(r *domain.ItemRequest) { r.Status = domain.RequestResolved }),
			stored: true,
		},
		{
			name:    "missing_email",
			req:     helpers.NewTestItemRequest(func(r *domain.ItemRequest) { r.Email = "" }),
			wantErr: true,
		},
		{
			name:    "zero_quantity",
			req:     helpers.NewTestItemRequest(func(r *domain.ItemRequest) { r.Quantity = 0 }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, backend, _ := newRequestService(t)
			if tt.stored {
				backend.EXPECT().CreateItemRequest(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r domain.ItemRequest) (*domain.ItemRequest, error) {
						assert.Equal(t, domain.RequestPending, r.Status)
						r.ID = "req-1"
						return &r, nil
					})
			}

			created, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr {
				assert.True(t, domain.IsValidation(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "req-1", created.ID)
		})
	}
}

func TestRequestService_List(t *testing.T) {
	t.Run("admin_filters_by_status", func(t *testing.T) {
		svc, backend, access := newRequestService(t)
		access.EXPECT().Authorize(gomock.Any(), domain.ActionManageRequests).Return(nil)
		backend.EXPECT().ListItemRequests(gomock.Any(), domain.RequestFilter{Status: domain.RequestPending}).
			Return([]domain.ItemRequest{{ID: "req-1"}}, nil)

		got, err := svc.List(staff("admin-1"), domain.RequestFilter{Status: domain.RequestPending})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unknown_status_filter", func(t *testing.T) {
		svc, _, access := newRequestService(t)
		access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.List(staff("admin-1"), domain.RequestFilter{Status: "archived"})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("operators_are_refused", func(t *testing.T) {
		svc, _, access := newRequestService(t)
		access.EXPECT().Authorize(gomock.Any(), domain.ActionManageRequests).
			Return(&domain.AuthorizationError{Required: domain.RoleAdmin, Authenticated: true})

		_, err := svc.List(staff("op-1"), domain.RequestFilter{})
		assert.True(t, domain.IsAuthorization(err))
	})
}

func TestRequestService_UpdateStatus(t *testing.T) {
	t.Run("resolve", func(t *testing.T) {
		svc, backend, access := newRequestService(t)
		access.EXPECT().Authorize(gomock.Any(), domain.ActionManageRequests).Return(nil)
		backend.EXPECT().UpdateItemRequestStatus(gomock.Any(), "req-1", domain.RequestResolved).
			Return(&domain.ItemRequest{ID: "req-1", Status: domain.RequestResolved}, nil)

		updated, err := svc.UpdateStatus(staff("admin-1"), "req-1", domain.RequestResolved)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestResolved, updated.Status)
	})

	t.Run("invalid_status", func(t *testing.T) {
		svc, _, access := newRequestService(t)
		access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.UpdateStatus(staff("admin-1"), "req-1", "done")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("missing_request", func(t *testing.T) {
		svc, backend, access := newRequestService(t)
		access.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(nil)
		backend.EXPECT().UpdateItemRequestStatus(gomock.Any(), "gone", gomock.Any()).
			Return(nil, domain.NewNotFoundError("item request", "gone"))

		_, err := svc.UpdateStatus(staff("admin-1"), "gone", domain.RequestResolved)
		assert.True(t, domain.IsNotFound(err))
	})
}
