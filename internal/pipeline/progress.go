package pipeline

// Progress steps
const (
	StepExtract  = "extract"
	StepBackfill = "backfill"
	StepTailor   = "tailor"
	StepOptimize = "optimize"
)

// Progress categories
const (
	CategoryStarted   = "started"
	CategoryCompleted = "completed"
	CategoryWarning   = "warning"
	CategoryFailed    = "failed"
)

// ProgressEvent represents a progress update during an agent operation
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when agent progress occurs
type ProgressCallback func(event ProgressEvent)

func (a *Agent) emit(step, category, message string, content any) {
	if a.onProgress != nil {
		a.onProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}
