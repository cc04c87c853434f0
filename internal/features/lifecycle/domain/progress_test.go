package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestComputeProgress_TerminalFailuresShowZero verifies failures never imply partial success.
func TestComputeProgress_TerminalFailuresShowZero(t *testing.T) {
	for _, status := range []string{"rejected", "cancelled", "returned", "failed"} {
		progress := ComputeProgress(status)
		assert.True(t, progress.TerminalFailure, status)
		assert.Zero(t, progress.ProgressPercent, status)
	}
}

// TestComputeProgress_MonotonicallyNonDecreasing verifies advancing status never lowers progress.
func TestComputeProgress_MonotonicallyNonDecreasing(t *testing.T) {
	sequence := []string{"pending", "approved", "packed", "delivery_assigned", "out_for_delivery", "nearby", "delivered"}

	last := -1.0
	for _, status := range sequence {
		progress := ComputeProgress(status)
		assert.GreaterOrEqual(t, progress.ProgressPercent, last, status)
		last = progress.ProgressPercent
	}
}

// TestComputeProgress_Bounds verifies the endpoints of the progression.
func TestComputeProgress_Bounds(t *testing.T) {
	assert.Zero(t, ComputeProgress("pending").ProgressPercent)
	assert.Equal(t, 100.0, ComputeProgress("delivered").ProgressPercent)

	unknown := ComputeProgress("no_such_status")
	assert.Zero(t, unknown.ProgressPercent)
	assert.Equal(t, "Order Placed", unknown.ActiveStageLabel)
}

// TestComputeProgress_Labels verifies the view-model carries display text.
func TestComputeProgress_Labels(t *testing.T) {
	nearby := ComputeProgress("nearby")
	assert.Equal(t, "Almost There!", nearby.ActiveStageLabel)
	assert.NotEmpty(t, nearby.ActiveStageDescription)

	alias := ComputeProgress("shipping")
	assert.Equal(t, "Out for Delivery", alias.ActiveStageLabel)
}
