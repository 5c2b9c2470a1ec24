package msg

// Event types for asynchronous job events
const (
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

// Progress status markers
const (
	StatusMerging = "merging"
)

// TestReply answers a "test" action with tool availability info.
type TestReply struct {
	ID            any    `json:"id,omitempty"`
	Success       bool   `json:"success"`
	YTDLPVersion  string `json:"ytdlpVersion"`
	FFmpegVersion string `json:"ffmpegVersion"`
}

// DownloadAck is the immediate acknowledgment for an accepted download.
type DownloadAck struct {
	ID         any    `json:"id,omitempty"`
	Success    bool   `json:"success"`
	DownloadID string `json:"downloadId"`
}

// SimpleReply answers cancel/openFolder actions and failed validations.
type SimpleReply struct {
	ID      any    `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DirectoryReply answers a "selectDirectory" action.
type DirectoryReply struct {
	ID      any    `json:"id,omitempty"`
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UnknownActionReply answers a message whose action is not recognized.
type UnknownActionReply struct {
	ID    any    `json:"id,omitempty"`
	Error string `json:"error"`
}

// ProgressEvent carries one parsed progress payload for a running job.
// The Progress field is one of ProgressUpdate, ProgressMerging or
// ProgressDestination.
type ProgressEvent struct {
	Type       string `json:"type"`
	DownloadID string `json:"downloadId"`
	Progress   any    `json:"progress"`
}

// ProgressUpdate is a percent/size/speed/ETA snapshot. Sizes are bytes,
// speed is bytes per second, ETA is seconds.
type ProgressUpdate struct {
	Percent    float64 `json:"percent"`
	Downloaded float64 `json:"downloaded"`
	Total      float64 `json:"total"`
	Speed      float64 `json:"speed"`
	ETA        int     `json:"eta"`
}

// ProgressMerging is the synthetic 99% marker emitted while the external
// tool combines streams and goes silent.
type ProgressMerging struct {
	Percent float64 `json:"percent"`
	Status  string  `json:"status"`
}

// ProgressDestination reports the filename the external tool chose.
type ProgressDestination struct {
	Filename string `json:"filename"`
}

// CompleteEvent is the terminal event for a successful job.
type CompleteEvent struct {
	Type       string `json:"type"`
	DownloadID string `json:"downloadId"`
	Filename   string `json:"filename"`
}

// ErrorEvent is the terminal event for a failed job.
type ErrorEvent struct {
	Type       string `json:"type"`
	DownloadID string `json:"downloadId"`
	Error      string `json:"error"`
}

// NewComplete builds the terminal complete event for a job.
func NewComplete(downloadID, filename string) CompleteEvent {
	return CompleteEvent{Type: EventComplete, DownloadID: downloadID, Filename: filename}
}

// NewError builds the terminal error event for a job.
func NewError(downloadID, errText string) ErrorEvent {
	return ErrorEvent{Type: EventError, DownloadID: downloadID, Error: errText}
}
