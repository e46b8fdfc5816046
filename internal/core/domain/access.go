package domain

// Action names an operation guarded by the access policy.
type Action string

const (
	ActionViewInventory     Action = "view inventory"
	ActionEditInventory     Action = "edit inventory"
	ActionDeleteInventory   Action = "delete inventory"
	ActionSubmitRequest     Action = "submit item request"
	ActionManageRequests    Action = "manage item requests"
	ActionWithdraw          Action = "withdraw stock"
	ActionReviewWithdrawals Action = "review withdrawals"
	ActionManageProfiles    Action = "manage profiles"
	ActionExportInventory   Action = "export inventory"
	ActionViewSummary       Action = "view inventory summary"
)

// Public marks actions that need no identity.
const Public Role = ""

// Policy maps each action to the minimum role it requires.
var Policy = map[Action]Role{
	ActionViewInventory:     Public,
	ActionEditInventory:     RoleOperator,
	ActionDeleteInventory:   RoleAdmin,
	ActionSubmitRequest:     Public,
	ActionManageRequests:    RoleAdmin,
	ActionWithdraw:          RoleOperator,
	ActionReviewWithdrawals: RoleAdmin,
	ActionManageProfiles:    RoleAdmin,
	ActionExportInventory:   RoleOperator,
	ActionViewSummary:       RoleOperator,
}

// RequiredRole returns the minimum role for action. Unknown actions require admin.
func RequiredRole(action Action) Role {
	role, ok := Policy[action]
	if !ok {
		return RoleAdmin
	}
	return role
}
