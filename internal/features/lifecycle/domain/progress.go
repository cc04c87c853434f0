package domain

// Progress is the view-model computed from a raw status string.
// It is a pure function of the status: safe to recompute on every render.
type Progress struct {
	// Ordinal is the resolved stage position; -1 for terminal failures.
	Ordinal int `json:"ordinal"`
	// TerminalFailure marks a lifecycle that ended without delivery.
	TerminalFailure bool `json:"terminal_failure"`
	// ProgressPercent is how far along the forward progression the order is, in [0,100].
	ProgressPercent float64 `json:"progress_percent"`
	// ActiveStageLabel is the display name of the resolved stage.
	ActiveStageLabel string `json:"active_stage_label"`
	// ActiveStageDescription is the customer-facing text for the resolved stage.
	ActiveStageDescription string `json:"active_stage_description"`
}

// ComputeProgress resolves a raw status into its progress view-model.
// Terminal failures always report zero progress: a failed lifecycle must not
// imply partial success.
func ComputeProgress(status string) Progress {
	stage := ResolveStage(status)

	if stage.TerminalFailure {
		return Progress{
			Ordinal:                stage.Ordinal,
			TerminalFailure:        true,
			ProgressPercent:        0,
			ActiveStageLabel:       stage.Label,
			ActiveStageDescription: stage.Description,
		}
	}

	ordinal := stage.Ordinal
	if ordinal > LastOrdinal() {
		ordinal = LastOrdinal()
	}
	if ordinal < 0 {
		ordinal = 0
	}

	percent := float64(ordinal) / float64(LastOrdinal()) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return Progress{
		Ordinal:                ordinal,
		ProgressPercent:        percent,
		ActiveStageLabel:       stage.Label,
		ActiveStageDescription: stage.Description,
	}
}
