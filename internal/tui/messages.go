package tui

import "github.com/Veraticus/ecgdash/internal/dashboard"

// Remote call completions, applied to the core inside Update.
type operationDoneMsg struct {
	done dashboard.Completion
}

type levelDoneMsg struct {
	result dashboard.LevelResult
}

// Chart export.
type chartSavedMsg struct {
	err  error
	path string
}
