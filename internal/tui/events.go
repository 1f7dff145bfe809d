package tui

// TaskID identifies a phase in the progress display.
type TaskID int

const (
	TaskAuth   TaskID = iota // Authenticating with GitHub
	TaskScan                 // Streaming and classifying repositories
	TaskEnrich               // Fetching release/PR metrics for stale repos
	TaskReport               // Aggregating and writing the report
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// Event is the interface for all progress events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // Optional detail (e.g., "120 scanned, 4 stale")
	Count    int     // Count of items processed
	Progress float64 // Progress from 0.0 to 1.0, when the total is known
	Error    error   // Error if status is StatusError
}

func (TaskEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
