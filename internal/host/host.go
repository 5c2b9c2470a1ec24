// Package host implements the dispatcher: the single control loop that
// reads one framed message at a time, routes it by action, and replies.
// Long-running downloads are handed to the supervisor and acknowledged
// immediately; everything else is handled synchronously.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ytget/yt-bridge/internal/config"
	"github.com/ytget/yt-bridge/internal/download"
	"github.com/ytget/yt-bridge/internal/framing"
	"github.com/ytget/yt-bridge/internal/msg"
	"github.com/ytget/yt-bridge/internal/platform"
)

// Host wires the framed channel to the action handlers.
type Host struct {
	codec *framing.Codec
	dl    *download.Service
	store *config.Store
	log   *slog.Logger

	// OS collaborators, replaceable in tests
	versionProbe func(ctx context.Context) (ytdlp, ffmpeg string)
	selectDir    func(ctx context.Context) (string, error)
	openFolder   func(path string) error
}

// New creates a host over the given channel and services.
func New(codec *framing.Codec, dl *download.Service, store *config.Store, log *slog.Logger) *Host {
	return &Host{
		codec:        codec,
		dl:           dl,
		store:        store,
		log:          log,
		versionProbe: probeVersions,
		selectDir:    platform.SelectDirectory,
		openFolder:   platform.OpenFolder,
	}
}

// Run processes inbound messages until the stream ends. Undecodable
// messages are dropped; only transport failure terminates the loop. On
// return every outstanding process has been sent a termination signal.
func (h *Host) Run(ctx context.Context) error {
	h.log.Info("native host started")
	defer h.Shutdown()

	for {
		raw, err := h.codec.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.log.Info("input stream closed, shutting down")
				return nil
			}
			h.log.Error("transport failure", "err", err)
			return err
		}

		var req msg.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			h.log.Error("dropping undecodable message", "err", err)
			continue
		}
		h.dispatch(ctx, req)
	}
}

// Shutdown signals every registered process. Best-effort, never blocks on
// process exit.
func (h *Host) Shutdown() {
	h.dl.CancelAll()
	h.log.Info("native host exiting")
}

func (h *Host) dispatch(ctx context.Context, req msg.Request) {
	h.log.Debug("handling action", "action", req.Action)

	switch req.Action {
	case msg.ActionTest:
		h.handleTest(ctx, req)
	case msg.ActionDownload:
		h.handleDownload(req)
	case msg.ActionCancel:
		h.handleCancel(req)
	case msg.ActionSelectDirectory:
		h.handleSelectDirectory(ctx, req)
	case msg.ActionOpenFolder:
		h.handleOpenFolder(req)
	default:
		h.send(msg.UnknownActionReply{ID: req.ID, Error: fmt.Sprintf("Unknown action: %s", req.Action)})
	}
}

func (h *Host) send(v any) {
	if err := h.codec.Send(v); err != nil {
		h.log.Error("reply send failed", "err", err)
	}
}

// probeVersions resolves both tools and extracts their version strings.
func probeVersions(ctx context.Context) (string, string) {
	ytdlp := platform.ToolVersion(ctx, platform.FindYTDLP())
	ffmpeg := platform.ToolVersion(ctx, platform.FindFFmpeg())
	return ytdlp, ffmpeg
}
