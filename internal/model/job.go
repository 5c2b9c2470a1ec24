package model

import (
	"strings"
	"time"
)

// Job represents one caller-initiated download. The ID is supplied by the
// caller and never reused; uniqueness is the caller's responsibility.
type Job struct {
	ID        string
	URL       string
	Title     string // sanitized title used for the output template
	Extension string // requested destination extension
	Filename  string // best-known output filename
	Status    JobStatus
	StartedAt time.Time
}

// DefaultFilename returns the placeholder filename used until the external
// tool reports its own destination path.
func (j *Job) DefaultFilename() string {
	return j.Title + "." + strings.TrimPrefix(j.Extension, ".")
}
