package domain

// Role identifies who is looking at the lifecycle.
type Role string

const (
	// RoleCustomer tracks an order read-only.
	RoleCustomer Role = "customer"
	// RoleAgent works a delivery assignment.
	RoleAgent Role = "agent"
	// RoleVendor reviews and packs orders.
	RoleVendor Role = "vendor"
)

// ActionKey identifies a lifecycle transition request a role may issue.
type ActionKey string

const (
	ActionAccept        ActionKey = "accept"
	ActionMarkPickedUp  ActionKey = "mark_picked_up"
	ActionMarkInTransit ActionKey = "mark_in_transit"
	ActionSignalNearby  ActionKey = "signal_nearby"
	ActionVerifyOTP     ActionKey = "verify_otp"
	ActionReportFailed  ActionKey = "report_failed"
	ActionApprove       ActionKey = "approve"
	ActionReject        ActionKey = "reject"
	ActionPack          ActionKey = "pack"
)

// agentActions gates the delivery agent console by assignment status.
var agentActions = map[string][]ActionKey{
	"assigned":   {ActionAccept},
	"accepted":   {ActionMarkPickedUp, ActionReportFailed},
	"picked_up":  {ActionMarkInTransit, ActionReportFailed},
	"in_transit": {ActionSignalNearby, ActionVerifyOTP, ActionReportFailed},
	"nearby":     {ActionVerifyOTP, ActionReportFailed},
}

// vendorActions gates the vendor dashboard by order status.
var vendorActions = map[string][]ActionKey{
	"pending":  {ActionApprove, ActionReject},
	"approved": {ActionPack, ActionReject},
}

// AvailableActions returns the transition requests a role may issue for the
// given raw status. It is a deterministic table lookup: the server remains
// the authority on whether the transition is actually allowed. Terminal
// states offer no actions; the UI shows a completion or failure banner only.
func AvailableActions(status string, role Role) []ActionKey {
	if IsTerminalFailure(status) {
		return nil
	}

	key := string(ResolveStageKeyRaw(status))

	switch role {
	case RoleAgent:
		return agentActions[key]
	case RoleVendor:
		return vendorActions[key]
	default:
		// Customers only watch.
		return nil
	}
}

// HasAction reports whether the action set contains the given key.
func HasAction(actions []ActionKey, key ActionKey) bool {
	for _, a := range actions {
		if a == key {
			return true
		}
	}
	return false
}

// ResolveStageKeyRaw normalizes a raw status string without forcing it into
// the customer catalog. Assignment statuses such as "accepted" or
// "picked_up" are not customer lifecycle stages but still gate actions.
func ResolveStageKeyRaw(rawStatus string) StageKey {
	key := normalizeStatus(rawStatus)
	if alias, ok := statusAliases[string(key)]; ok {
		return alias
	}
	return key
}
