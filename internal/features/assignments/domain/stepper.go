package domain

// StepState tells how a single assignment stage renders.
type StepState string

const (
	// StepDone renders as completed.
	StepDone StepState = "done"
	// StepActive renders as the highlighted current stage.
	StepActive StepState = "active"
	// StepFuture renders dimmed.
	StepFuture StepState = "future"
)

// Step is one renderable entry of the assignment progress stepper.
type Step struct {
	// Key is the assignment status this step represents.
	Key string `json:"key"`
	// Label is the display name.
	Label string `json:"label"`
	// State is done, active or future.
	State StepState `json:"state"`
}

// stepCatalog is the forward path of an assignment, in order.
var stepCatalog = []Step{
	{Key: StatusAssigned, Label: "Assigned"},
	{Key: StatusAccepted, Label: "Accepted"},
	{Key: StatusPickedUp, Label: "Picked Up"},
	{Key: StatusInTransit, Label: "In Transit"},
	{Key: StatusDelivered, Label: "Delivered"},
}

var stepIndex = func() map[string]int {
	idx := make(map[string]int, len(stepCatalog))
	for i, step := range stepCatalog {
		idx[step.Key] = i
	}
	return idx
}()

// BuildSteps maps the assignment status onto the stepper. A failed
// assignment renders every step as future; the caller shows the failed
// badge separately. Unknown statuses fall back to the first step.
func BuildSteps(status string) []Step {
	if status == StatusFailed {
		steps := make([]Step, len(stepCatalog))
		copy(steps, stepCatalog)
		for i := range steps {
			steps[i].State = StepFuture
		}
		return steps
	}

	current, ok := stepIndex[status]
	if !ok {
		current = 0
	}

	steps := make([]Step, len(stepCatalog))
	copy(steps, stepCatalog)
	for i := range steps {
		switch {
		case i < current:
			steps[i].State = StepDone
		case i == current:
			steps[i].State = StepActive
		default:
			steps[i].State = StepFuture
		}
	}
	return steps
}

// IsFailed reports whether the assignment ended without delivery.
func IsFailed(status string) bool {
	return status == StatusFailed
}
