package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadHistory Phase = iota
	ExportReading
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadHistory:
		return "load_history"
	case ExportReading:
		return "export_reading"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func loadingHistoryUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d saved readings", count),
	}
}

func exportingReadingUpdate(step, total, sequence int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportReading,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting reading #%d...", step, total, sequence),
	}
}

func exportCompletedUpdate(step, total int, file string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportReading,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, file),
	}
}

func exportFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportReading,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
