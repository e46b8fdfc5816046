package domain

import (
	"net/mail"
	"strings"
	"time"
)

// RequestStatus is the state of a general item request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestResolved RequestStatus = "resolved"
)

// Valid reports whether the status belongs to the item request domain.
func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestResolved
}

// ItemRequest is a public request for an item, not necessarily one in stock.
type ItemRequest struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	ScoutGroup        string        `json:"scoutGroup"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	ItemRequested     string        `json:"itemRequested"`
	Quantity          int           `json:"quantity"`
	AdditionalMessage string        `json:"additionalMessage,omitempty"`
	Status            RequestStatus `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// RequestFilter narrows a request listing. A zero filter lists everything.
type RequestFilter struct {
	Status RequestStatus
}

// Validate performs domain validation on the request fields a caller supplies.
func (r *ItemRequest) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", r.Name},
		{"scoutGroup", r.ScoutGroup},
		{"email", r.Email},
		{"phone", r.Phone},
		{"itemRequested", r.ItemRequested},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return NewValidationError(f.field, f.field+" is required")
		}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return NewValidationError("email", "invalid email: "+r.Email)
	}
	if r.Quantity <= 0 {
		return NewValidationError("quantity", "quantity must be positive")
	}
	if r.Quantity > MaxQuantity {
		return NewValidationError("quantity", "quantity is too large")
	}
	return nil
}

// PrepareForStorage validates the request and forces the initial status.
func (r *ItemRequest) PrepareForStorage() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ScoutGroup = strings.TrimSpace(r.ScoutGroup)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.ItemRequested = strings.TrimSpace(r.ItemRequested)
	r.AdditionalMessage = strings.TrimSpace(r.AdditionalMessage)
	if err := r.Validate(); err != nil {
		return err
	}
	r.Status = RequestPending
	return nil
}
