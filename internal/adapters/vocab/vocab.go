// Package vocab translates canonical enum values to the labels both storage
// backends persist, and back.
package vocab

import (
	"fmt"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

type table[T ~string] struct {
	name   string
	stored map[T]string
	parsed map[string]T
}

func newTable[T ~string](name string, pairs map[T]string) table[T] {
	t := table[T]{name: name, stored: pairs, parsed: make(map[string]T, len(pairs))}
	for canonical, label := range pairs {
		t.parsed[label] = canonical
	}
	return t
}

func (t table[T]) label(v T) (string, error) {
	label, ok := t.stored[v]
	if !ok {
		return "", domain.NewValidationError(t.name, fmt.Sprintf("invalid %s: %s", t.name, v))
	}
	return label, nil
}

func (t table[T]) parse(label string) (T, error) {
	v, ok := t.parsed[label]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown stored %s label %q", t.name, label)
	}
	return v, nil
}

var (
	levels = newTable("level", map[domain.Level]string{
		domain.LevelNone: "Não Tem",
		domain.Level1:    "Nivel 1",
		domain.Level2:    "Nivel 2",
		domain.Level3:    "Nivel 3",
	})
	kinds = newTable("kind", map[domain.Kind]string{
		domain.KindRing:             "Arganel",
		domain.KindCertificate:      "Certificado",
		domain.KindBadge:            "Distintivo",
		domain.KindProgressionBadge: "Distintivo de Progressão",
		domain.KindSpecialtyBadge:   "Distintivo Especialidade",
	})
	branches = newTable("branch", map[domain.Branch]string{
		domain.BranchCub:    "Lobinho",
		domain.BranchScout:  "Escoteiro",
		domain.BranchSenior: "Sênior",
		domain.BranchRover:  "Pioneiro",
		domain.BranchYouth:  "Jovens",
		domain.BranchLeader: "Escotista",
		domain.BranchAll:    "Todos",
	})
	requestStatuses = newTable("status", map[domain.RequestStatus]string{
		domain.RequestPending:  "pendente",
		domain.RequestResolved: "resolvida",
	})
	withdrawalStatuses = newTable("status", map[domain.WithdrawalStatus]string{
		domain.WithdrawalRequested: "solicitado",
		domain.WithdrawalApproved:  "aprovado",
		domain.WithdrawalRejected:  "rejeitado",
	})
	roles = newTable("role", map[domain.Role]string{
		domain.RoleAdmin:    "admin",
		domain.RoleOperator: "operador",
	})
)

func Level(v domain.Level) (string, error) { return levels.label(v) }
func ParseLevel(s string) (domain.Level, error) { return levels.parse(s) }

func Kind(v domain.Kind) (string, error) { return kinds.label(v) }
func ParseKind(s string) (domain.Kind, error) { return kinds.parse(s) }

func Branch(v domain.Branch) (string, error) { return branches.label(v) }
func ParseBranch(s string) (domain.Branch, error) { return branches.parse(s) }

func RequestStatus(v domain.RequestStatus) (string, error) { return requestStatuses.label(v) }
func ParseRequestStatus(s string) (domain.RequestStatus, error) { return requestStatuses.parse(s) }

func WithdrawalStatus(v domain.WithdrawalStatus) (string, error) {
	return withdrawalStatuses.label(v)
}

func ParseWithdrawalStatus(s string) (domain.WithdrawalStatus, error) {
	return withdrawalStatuses.parse(s)
}

func Role(v domain.Role) (string, error) { return roles.label(v) }
func ParseRole(s string) (domain.Role, error) { return roles.parse(s) }

// ItemLabels holds the stored labels of an inventory item's enums.
type ItemLabels struct {
	Level  string
	Kind   string
	Branch string
}

// InventoryLabels translates all enum fields of item at once.
func InventoryLabels(item domain.InventoryItem) (ItemLabels, error) {
	var (
		out ItemLabels
		err error
	)
	if out.Level, err = Level(item.Level); err != nil {
		return out, err
	}
	if out.Kind, err = Kind(item.Kind); err != nil {
		return out, err
	}
	if out.Branch, err = Branch(item.Branch); err != nil {
		return out, err
	}
	return out, nil
}

// ParseInventoryLabels translates stored labels back into item.
func ParseInventoryLabels(labels ItemLabels, item *domain.InventoryItem) error {
	var err error
	if item.Level, err = ParseLevel(labels.Level); err != nil {
		return err
	}
	if item.Kind, err = ParseKind(labels.Kind); err != nil {
		return err
	}
	if item.Branch, err = ParseBranch(labels.Branch); err != nil {
		return err
	}
	return nil
}
