package domain

// StepState tells how a single stage renders in the progress tracker.
type StepState string

const (
	// StepDone renders as completed.
	StepDone StepState = "done"
	// StepActive renders as the highlighted current stage.
	StepActive StepState = "active"
	// StepFuture renders dimmed.
	StepFuture StepState = "future"
)

// StepView is one renderable entry of the progress tracker.
type StepView struct {
	// Key is the canonical stage identifier.
	Key StageKey `json:"key"`
	// Label is the display name.
	Label string `json:"label"`
	// State is done, active or future.
	State StepState `json:"state"`
}

// BannerKind selects the visual treatment of the status banner.
type BannerKind string

const (
	// BannerInfo describes the active stage.
	BannerInfo BannerKind = "info"
	// BannerOTP prompts the customer for the delivery OTP.
	BannerOTP BannerKind = "otp"
	// BannerSuccess celebrates a completed delivery.
	BannerSuccess BannerKind = "success"
	// BannerFailure explains a terminal failure.
	BannerFailure BannerKind = "failure"
)

// Banner is the single descriptive banner shown for the current status.
type Banner struct {
	// Kind selects the visual treatment.
	Kind BannerKind `json:"kind"`
	// Title is the banner headline.
	Title string `json:"title"`
	// Message is the banner body text.
	Message string `json:"message"`
}

// BuildSteps maps the status into done/active/future step indicators.
// On a terminal failure every step renders as future; the failure banner
// carries the explanation instead.
func BuildSteps(status string) []StepView {
	progress := ComputeProgress(status)

	steps := make([]StepView, 0, len(ForwardStages))
	for _, stage := range ForwardStages {
		state := StepFuture
		if !progress.TerminalFailure {
			switch {
			case stage.Ordinal < progress.Ordinal:
				state = StepDone
			case stage.Ordinal == progress.Ordinal:
				state = StepActive
			}
		}
		steps = append(steps, StepView{
			Key:   stage.Key,
			Label: stage.Label,
			State: state,
		})
	}

	return steps
}

// BuildBanner returns the single banner describing the current status.
func BuildBanner(status string) Banner {
	stage := ResolveStage(status)

	switch {
	case stage.TerminalFailure:
		return Banner{
			Kind:    BannerFailure,
			Title:   stage.Label,
			Message: stage.Description,
		}
	case stage.Key == StageNearby:
		return Banner{
			Kind:    BannerOTP,
			Title:   "Delivery Agent is Nearby!",
			Message: "Check your email for your one-time delivery OTP. Share it with the agent only upon receiving your package.",
		}
	case stage.Key == StageDelivered:
		return Banner{
			Kind:    BannerSuccess,
			Title:   stage.Label,
			Message: stage.Description,
		}
	default:
		return Banner{
			Kind:    BannerInfo,
			Title:   stage.Label,
			Message: stage.Description,
		}
	}
}
