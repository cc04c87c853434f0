package domain

import "strings"

// StageKey is the canonical identifier of a lifecycle stage.
type StageKey string

const (
	// StagePending indicates the order is placed and awaiting vendor review.
	StagePending StageKey = "pending"
	// StageApproved indicates the vendor accepted the order.
	StageApproved StageKey = "approved"
	// StagePacked indicates the order is packed and an agent is being assigned.
	StagePacked StageKey = "packed"
	// StageDeliveryAssigned indicates a delivery agent has been assigned.
	StageDeliveryAssigned StageKey = "delivery_assigned"
	// StageOutForDelivery indicates the package is on its way.
	StageOutForDelivery StageKey = "out_for_delivery"
	// StageNearby indicates the agent is close and an OTP has been issued.
	StageNearby StageKey = "nearby"
	// StageDelivered indicates the order reached the customer.
	StageDelivered StageKey = "delivered"

	// StageRejected ends the lifecycle: the vendor declined the order.
	StageRejected StageKey = "rejected"
	// StageCancelled ends the lifecycle: the order was cancelled.
	StageCancelled StageKey = "cancelled"
	// StageReturned ends the lifecycle: the order came back to the vendor.
	StageReturned StageKey = "returned"
	// StageFailed ends the lifecycle: the delivery attempt failed.
	StageFailed StageKey = "failed"
)

// Stage describes one step of the order lifecycle.
type Stage struct {
	// Key is the canonical stage identifier.
	Key StageKey `json:"key"`
	// Ordinal is the position in the forward progression; -1 for terminal failures.
	Ordinal int `json:"ordinal"`
	// Label is the display name of the stage.
	Label string `json:"label"`
	// Description is the customer-facing explanation of the stage.
	Description string `json:"description"`
	// TerminalFailure marks statuses that end tracking without delivery.
	TerminalFailure bool `json:"terminal_failure"`
}

// ForwardStages is the canonical forward progression, ordered by ordinal.
var ForwardStages = []Stage{
	{Key: StagePending, Ordinal: 0, Label: "Order Placed", Description: "Your order has been received and is awaiting vendor review."},
	{Key: StageApproved, Ordinal: 1, Label: "Approved", Description: "Vendor has accepted your order and will begin preparing it."},
	{Key: StagePacked, Ordinal: 2, Label: "Packed", Description: "Your order is packed and a delivery agent is being assigned."},
	{Key: StageDeliveryAssigned, Ordinal: 3, Label: "Agent Assigned", Description: "A delivery agent has been assigned and will pick up your order soon."},
	{Key: StageOutForDelivery, Ordinal: 4, Label: "Out for Delivery", Description: "Your package is on its way. Hang tight!"},
	{Key: StageNearby, Ordinal: 5, Label: "Almost There!", Description: "Your delivery agent is nearby. Check your email/SMS for the OTP."},
	{Key: StageDelivered, Ordinal: 6, Label: "Delivered", Description: "Your order has been delivered successfully. Enjoy!"},
}

// terminalFailureStages are disjoint from the forward progression.
var terminalFailureStages = map[StageKey]Stage{
	StageRejected:  {Key: StageRejected, Ordinal: -1, Label: "Rejected", Description: "Your order was rejected by the vendor. Please contact support.", TerminalFailure: true},
	StageCancelled: {Key: StageCancelled, Ordinal: -1, Label: "Cancelled", Description: "Order has been cancelled.", TerminalFailure: true},
	StageReturned:  {Key: StageReturned, Ordinal: -1, Label: "Returned", Description: "Order was returned. Refund will be processed if applicable.", TerminalFailure: true},
	StageFailed:    {Key: StageFailed, Ordinal: -1, Label: "Failed", Description: "Delivery attempt failed. Please contact support.", TerminalFailure: true},
}

// statusAliases maps legacy and alternate server spellings to canonical stages.
var statusAliases = map[string]StageKey{
	"confirmed": StageApproved,
	"shipping":  StageOutForDelivery,
}

// forwardByKey indexes ForwardStages for resolution.
var forwardByKey = func() map[StageKey]Stage {
	m := make(map[StageKey]Stage, len(ForwardStages))
	for _, s := range ForwardStages {
		m[s.Key] = s
	}
	return m
}()

// LastOrdinal is the ordinal of the final forward stage.
func LastOrdinal() int {
	return ForwardStages[len(ForwardStages)-1].Ordinal
}

// ResolveStage maps a raw server status string to its lifecycle stage.
// It is total: unknown statuses resolve to the earliest stage so the UI
// stays non-blocking when the server introduces a spelling we do not know.
func ResolveStage(rawStatus string) Stage {
	key := normalizeStatus(rawStatus)

	if alias, ok := statusAliases[string(key)]; ok {
		key = alias
	}

	if stage, ok := terminalFailureStages[key]; ok {
		return stage
	}

	if stage, ok := forwardByKey[key]; ok {
		return stage
	}

	return ForwardStages[0]
}

// normalizeStatus lowercases and trims a raw server status string.
func normalizeStatus(rawStatus string) StageKey {
	return StageKey(strings.ToLower(strings.TrimSpace(rawStatus)))
}

// IsTerminalFailure reports whether the raw status ends the lifecycle
// without a successful delivery.
func IsTerminalFailure(rawStatus string) bool {
	return ResolveStage(rawStatus).TerminalFailure
}
