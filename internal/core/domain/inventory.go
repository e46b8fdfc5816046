// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Level represents the badge level of an item
type Level string

// Level constants
const (
	LevelNone Level = "None"
	Level1    Level = "Level 1"
	Level2    Level = "Level 2"
	Level3    Level = "Level 3"
)

// Kind represents the item category
type Kind string

// Kind constants
const (
	KindRing             Kind = "Ring"
	KindCertificate      Kind = "Certificate"
	KindBadge            Kind = "Badge"
	KindProgressionBadge Kind = "Progression Badge"
	KindSpecialtyBadge   Kind = "Specialty Badge"
)

// Branch represents the scouting age-branch an item belongs to
type Branch string

// Branch constants
const (
	BranchCub    Branch = "Cub"
	BranchScout  Branch = "Scout"
	BranchSenior Branch = "Senior"
	BranchRover  Branch = "Rover"
	BranchYouth  Branch = "Youth"
	BranchLeader Branch = "Leader"
	BranchAll    Branch = "All"
)

// Levels lists the level domain in display order.
var Levels = []Level{LevelNone, Level1, Level2, Level3}

// Kinds lists the kind domain in display order.
var Kinds = []Kind{KindRing, KindCertificate, KindBadge, KindProgressionBadge, KindSpecialtyBadge}

// Branches lists the branch domain in display order, ending with the All sentinel.
var Branches = []Branch{BranchCub, BranchScout, BranchSenior, BranchRover, BranchYouth, BranchLeader, BranchAll}

// Valid reports whether the level belongs to its domain.
func (l Level) Valid() bool { return contains(Levels, l) }

// Valid reports whether the kind belongs to its domain.
func (k Kind) Valid() bool { return contains(Kinds, k) }

// Valid reports whether the branch belongs to its domain.
func (b Branch) Valid() bool { return contains(Branches, b) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Storage limits shared by every backend: quantities are 32-bit integers,
// unit values carry ten integer digits and totals twelve.
const MaxQuantity = math.MaxInt32

var (
	maxUnitValue  = decimal.New(1, 10)
	maxTotalValue = decimal.New(1, 12)
)

// InventoryItem represents a stock item
type InventoryItem struct {
	ID          string          `json:"id"`
	Level       Level           `json:"level"`
	Kind        Kind            `json:"kind"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unitValue"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	Branch      Branch          `json:"branch"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InventoryPatch carries the fields of a partial update. Nil fields are left untouched.
type InventoryPatch struct {
	Level       *Level           `json:"level,omitempty"`
	Kind        *Kind            `json:"kind,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	UnitValue   *decimal.Decimal `json:"unitValue,omitempty"`
	Branch      *Branch          `json:"branch,omitempty"`
}

// Validate performs domain validation on the inventory item
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return NewValidationError("description", "description is required")
	}
	if !i.Level.Valid() {
		return NewValidationError("level", "invalid level: "+string(i.Level))
	}
	if !i.Kind.Valid() {
		return NewValidationError("kind", "invalid kind: "+string(i.Kind))
	}
	if !i.Branch.Valid() {
		return NewValidationError("branch", "invalid branch: "+string(i.Branch))
	}
	if err := validateQuantity(i.Quantity); err != nil {
		return err
	}
	if err := validateUnitValue(i.UnitValue); err != nil {
		return err
	}
	if TotalValue(i.Quantity, i.UnitValue).GreaterThanOrEqual(maxTotalValue) {
		return NewValidationError("totalValue", "totalValue must be below "+maxTotalValue.String())
	}
	return nil
}

// CalculateTotalValue normalizes the unit value to cents and derives the total.
func (i *InventoryItem) CalculateTotalValue() {
	i.UnitValue = i.UnitValue.Round(2)
	i.TotalValue = TotalValue(i.Quantity, i.UnitValue)
}

// TotalValue returns quantity * unitValue rounded to cents.
func TotalValue(quantity int, unitValue decimal.Decimal) decimal.Decimal {
	return unitValue.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// PrepareForStorage validates the item and computes derived fields.
func (i *InventoryItem) PrepareForStorage() error {
	i.Description = strings.TrimSpace(i.Description)
	i.CalculateTotalValue()
	return i.Validate()
}

// IsEmpty reports whether the patch carries no fields.
func (p InventoryPatch) IsEmpty() bool {
	return p.Level == nil && p.Kind == nil && p.Description == nil &&
		p.Quantity == nil && p.UnitValue == nil && p.Branch == nil
}

// Validate checks every supplied field against its domain.
func (p InventoryPatch) Validate() error {
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return NewValidationError("description", "description cannot be empty")
	}
	if p.Level != nil && !p.Level.Valid() {
		return NewValidationError("level", "invalid level: "+string(*p.Level))
	}
	if p.Kind != nil && !p.Kind.Valid() {
		return NewValidationError("kind", "invalid kind: "+string(*p.Kind))
	}
	if p.Branch != nil && !p.Branch.Valid() {
		return NewValidationError("branch", "invalid branch: "+string(*p.Branch))
	}
	if p.Quantity != nil {
		if err := validateQuantity(*p.Quantity); err != nil {
			return err
		}
	}
	if p.UnitValue != nil {
		if err := validateUnitValue(p.UnitValue.Round(2)); err != nil {
			return err
		}
	}
	return nil
}

func validateQuantity(q int) error {
	if q < 0 {
		return NewValidationError("quantity", "quantity cannot be negative")
	}
	if q > MaxQuantity {
		return NewValidationError("quantity", fmt.Sprintf("quantity cannot exceed %d", MaxQuantity))
	}
	return nil
}

func validateUnitValue(v decimal.Decimal) error {
	if !v.IsPositive() {
		return NewValidationError("unitValue", "unitValue must be positive")
	}
	if v.GreaterThanOrEqual(maxUnitValue) {
		return NewValidationError("unitValue", "unitValue must be below "+maxUnitValue.String())
	}
	return nil
}

// Apply merges the patch into item, recomputes the total value and
// validates the merged result.
func (p InventoryPatch) Apply(item *InventoryItem) error {
	if p.Level != nil {
		item.Level = *p.Level
	}
	if p.Kind != nil {
		item.Kind = *p.Kind
	}
	if p.Description != nil {
		item.Description = strings.TrimSpace(*p.Description)
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitValue != nil {
		item.UnitValue = *p.UnitValue
	}
	if p.Branch != nil {
		item.Branch = *p.Branch
	}
	item.CalculateTotalValue()
	return item.Validate()
}
