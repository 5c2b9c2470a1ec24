package model

// JobStatus represents the lifecycle state of a download job
type JobStatus string

const (
	// JobStatusPending means the job was accepted but the process has not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusRunning means the external process is running
	JobStatusRunning JobStatus = "Running"

	// JobStatusCompleted means the process exited successfully
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusFailed means the process could not be launched or exited non-zero
	JobStatusFailed JobStatus = "Failed"

	// JobStatusCancelled means the job was cancelled by the caller
	JobStatusCancelled JobStatus = "Cancelled"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsTerminal returns true if the job reached a final state
func (js JobStatus) IsTerminal() bool {
	return js == JobStatusCompleted || js == JobStatusFailed || js == JobStatusCancelled
}
