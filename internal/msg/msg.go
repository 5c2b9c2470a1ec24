// Package msg defines the wire shapes exchanged with the browser extension.
//
// Inbound messages carry an "action" discriminator and are decoded into a
// closed set of per-action request types at the dispatcher boundary.
// Outbound messages are either synchronous replies correlated by "id" or
// asynchronous job events correlated by "downloadId" only.
package msg

import "fmt"

// Supported actions
const (
	ActionTest            = "test"
	ActionDownload        = "download"
	ActionCancel          = "cancel"
	ActionSelectDirectory = "selectDirectory"
	ActionOpenFolder      = "openFolder"
)

// Default request values
const (
	DefaultFormat    = "bestvideo+bestaudio/best"
	DefaultOutput    = "~/Downloads"
	DefaultExtension = "mp4"
	DefaultTitle     = "video"
)

// Request is the raw inbound envelope. Only the fields relevant to the
// carried action are read; everything else is ignored.
type Request struct {
	Action       string `json:"action"`
	ID           any    `json:"id,omitempty"`
	DownloadID   string `json:"downloadId,omitempty"`
	URL          string `json:"url,omitempty"`
	Format       string `json:"format,omitempty"`
	Output       string `json:"output,omitempty"`
	Extension    string `json:"extension,omitempty"`
	Subtitles    bool   `json:"subtitles,omitempty"`
	AudioOnly    bool   `json:"audioOnly,omitempty"`
	AudioQuality string `json:"audioQuality,omitempty"`
	Title        string `json:"title,omitempty"`
	Path         string `json:"path,omitempty"`
}

// DownloadRequest is the validated form of a "download" action with
// defaults applied.
type DownloadRequest struct {
	ID           any
	DownloadID   string
	URL          string
	Format       string
	Output       string
	Extension    string
	Subtitles    bool
	AudioOnly    bool
	AudioQuality string
	Title        string
}

// CancelRequest is the validated form of a "cancel" action.
type CancelRequest struct {
	ID         any
	DownloadID string
}

// OpenFolderRequest is the validated form of an "openFolder" action.
type OpenFolderRequest struct {
	ID   any
	Path string
}

// Download validates the envelope as a download request and applies defaults.
func (r Request) Download() (DownloadRequest, error) {
	if r.DownloadID == "" {
		return DownloadRequest{}, fmt.Errorf("download request missing downloadId")
	}
	if r.URL == "" {
		return DownloadRequest{}, fmt.Errorf("download request missing url")
	}

	dr := DownloadRequest{
		ID:           r.ID,
		DownloadID:   r.DownloadID,
		URL:          r.URL,
		Format:       r.Format,
		Output:       r.Output,
		Extension:    r.Extension,
		Subtitles:    r.Subtitles,
		AudioOnly:    r.AudioOnly,
		AudioQuality: r.AudioQuality,
		Title:        r.Title,
	}
	if dr.Format == "" {
		dr.Format = DefaultFormat
	}
	if dr.Output == "" {
		dr.Output = DefaultOutput
	}
	if dr.Extension == "" {
		dr.Extension = DefaultExtension
	}
	if dr.Title == "" {
		dr.Title = DefaultTitle
	}
	return dr, nil
}

// Cancel validates the envelope as a cancel request.
func (r Request) Cancel() (CancelRequest, error) {
	if r.DownloadID == "" {
		return CancelRequest{}, fmt.Errorf("cancel request missing downloadId")
	}
	return CancelRequest{ID: r.ID, DownloadID: r.DownloadID}, nil
}

// OpenFolder validates the envelope as an openFolder request.
func (r Request) OpenFolder() OpenFolderRequest {
	path := r.Path
	if path == "" {
		path = DefaultOutput
	}
	return OpenFolderRequest{ID: r.ID, Path: path}
}
