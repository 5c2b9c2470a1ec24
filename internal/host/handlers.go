package host

import (
	"context"

	"github.com/ytget/yt-bridge/internal/msg"
	"github.com/ytget/yt-bridge/internal/platform"
)

// handleTest reports tool availability and versions.
func (h *Host) handleTest(ctx context.Context, req msg.Request) {
	ytdlp, ffmpeg := h.versionProbe(ctx)
	h.send(msg.TestReply{
		ID:            req.ID,
		Success:       true,
		YTDLPVersion:  ytdlp,
		FFmpegVersion: ffmpeg,
	})
}

// handleDownload acknowledges the request and hands the job to the
// supervisor. The ack is sent before the supervisor starts, so it always
// precedes any event for the job.
func (h *Host) handleDownload(req msg.Request) {
	if req.Output == "" {
		req.Output = h.store.Current().DownloadDirectory
	}

	dr, err := req.Download()
	if err != nil {
		h.send(msg.SimpleReply{ID: req.ID, Success: false, Error: err.Error()})
		return
	}

	h.send(msg.DownloadAck{ID: req.ID, Success: true, DownloadID: dr.DownloadID})
	h.dl.Start(dr)
}

// handleCancel terminates the job if it exists. Cancelling an unknown id
// is not an error; the reply always reports success.
func (h *Host) handleCancel(req msg.Request) {
	cr, err := req.Cancel()
	if err != nil {
		h.send(msg.SimpleReply{ID: req.ID, Success: false, Error: err.Error()})
		return
	}

	h.dl.Cancel(cr.DownloadID)
	h.send(msg.SimpleReply{ID: req.ID, Success: true})
}

// handleSelectDirectory opens the native folder picker.
func (h *Host) handleSelectDirectory(ctx context.Context, req msg.Request) {
	path, err := h.selectDir(ctx)
	if err != nil {
		h.send(msg.DirectoryReply{ID: req.ID, Success: false, Error: err.Error()})
		return
	}
	h.send(msg.DirectoryReply{ID: req.ID, Success: true, Path: path})
}

// handleOpenFolder reveals the folder in the system file manager.
func (h *Host) handleOpenFolder(req msg.Request) {
	of := req.OpenFolder()
	if err := h.openFolder(platform.ExpandPath(of.Path)); err != nil {
		h.send(msg.SimpleReply{ID: req.ID, Success: false, Error: err.Error()})
		return
	}
	h.send(msg.SimpleReply{ID: req.ID, Success: true})
}
