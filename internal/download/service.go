package download

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ytget/yt-bridge/internal/config"
	"github.com/ytget/yt-bridge/internal/framing"
	"github.com/ytget/yt-bridge/internal/model"
	"github.com/ytget/yt-bridge/internal/msg"
	"github.com/ytget/yt-bridge/internal/platform"
	"github.com/ytget/yt-bridge/internal/progress"
	"github.com/ytget/yt-bridge/internal/registry"
)

// Output scanning limits
const (
	scanInitialBuffer = 64 * 1024
	scanMaxLine       = 1 << 20
)

// Failure message reported when yt-dlp exits non-zero
const exitFailureMessage = "Download failed. Check yt-dlp logs for details."

// Options overrides tool discovery, mainly for tests.
type Options struct {
	YTDLPPath  string
	FFmpegPath string
}

// Service supervises download jobs. One goroutine per job runs the full
// lifecycle; the registry is the only state shared with the dispatcher.
type Service struct {
	reg   *registry.Registry
	emit  Emitter
	store *config.Store
	log   *slog.Logger
	opts  Options

	mu     sync.Mutex
	reaped map[string]chan struct{}
}

// NewService creates a download supervisor.
func NewService(reg *registry.Registry, emit Emitter, store *config.Store, log *slog.Logger, opts Options) *Service {
	return &Service{
		reg:    reg,
		emit:   emit,
		store:  store,
		log:    log,
		opts:   opts,
		reaped: make(map[string]chan struct{}),
	}
}

// Start runs the job asynchronously. The caller must have acknowledged the
// request before calling, so the ack frame precedes any job event.
func (s *Service) Start(req msg.DownloadRequest) {
	go s.run(req)
}

func (s *Service) run(req msg.DownloadRequest) {
	job := &model.Job{
		ID:        req.DownloadID,
		URL:       req.URL,
		Title:     platform.SanitizeFilename(req.Title),
		Extension: req.Extension,
		Status:    model.JobStatusPending,
		StartedAt: time.Now(),
	}
	job.Filename = job.DefaultFilename()

	cmd := s.buildCommand(req, job)
	s.log.Info("starting download", "job", job.ID, "url", job.URL, "args", cmd.Args)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.fail(job, fmt.Errorf("open output pipe: %w", err))
		return
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		s.fail(job, fmt.Errorf("launch yt-dlp: %w", err))
		return
	}
	job.Status = model.JobStatusRunning

	done, err := s.register(job.ID, cmd)
	if err != nil {
		// The registry entry belongs to an earlier job with this id.
		// Discard only this process; the earlier job keeps running.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		job.Status = model.JobStatusFailed
		s.log.Error("download rejected", "job", job.ID, "err", err)
		s.send(msg.NewError(job.ID, err.Error()))
		return
	}

	s.stream(job, cmd, stdout)
	close(done)
	s.clearReaped(job.ID, done)
}

// stream relays parsed output until the process closes its stream, then
// reaps it and emits the terminal event. Registry absence between lines is
// the cancellation signal. The supervisor goroutine running stream is the
// only caller of cmd.Wait.
func (s *Service) stream(job *model.Job, cmd *exec.Cmd, output io.Reader) {
	scanner := bufio.NewScanner(output)
	scanner.Buffer(make([]byte, scanInitialBuffer), scanMaxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.log.Debug("yt-dlp output", "job", job.ID, "line", line)

		if !s.reg.Contains(job.ID) {
			job.Status = model.JobStatusCancelled
			terminate(cmd)
			_ = cmd.Wait()
			return
		}

		ev := progress.Parse(line, job.ID)
		if ev == nil {
			continue
		}
		if ev.Kind == progress.KindDestination {
			job.Filename = ev.Filename
		}
		if err := s.emit.Send(wireEvent(ev)); err != nil {
			s.log.Error("event send failed", "job", job.ID, "err", err)
			if errors.Is(err, framing.ErrFrameTooLarge) {
				s.send(msg.NewError(job.ID, "progress event exceeded the outbound frame size limit"))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Error("output stream error", "job", job.ID, "err", err)
	}

	err := cmd.Wait()
	if !s.reg.Contains(job.ID) {
		// Removed while draining: a cancel owns termination and already
		// reported success to the caller. No terminal event.
		job.Status = model.JobStatusCancelled
		return
	}
	s.reg.Remove(job.ID)

	if err != nil {
		job.Status = model.JobStatusFailed
		s.log.Error("download failed", "job", job.ID, "err", err)
		s.send(msg.NewError(job.ID, exitFailureMessage))
		return
	}

	job.Status = model.JobStatusCompleted
	s.log.Info("download complete", "job", job.ID, "filename", job.Filename)
	s.send(msg.NewComplete(job.ID, job.Filename))
}

// Cancel terminates the job's process, escalating to a forceful kill after
// the configured grace period, and removes the job from the registry. An
// unknown id is not an error. Cancel never reaps the process itself; it
// blocks until the job's supervisor has done so.
func (s *Service) Cancel(id string) {
	cmd, ok := s.reg.Lookup(id)
	done := s.reapedChan(id)
	s.reg.Remove(id)
	if !ok || cmd.Process == nil {
		return
	}

	s.log.Info("cancelling download", "job", id)
	terminate(cmd)

	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(s.store.Current().TerminateGrace):
		s.log.Warn("terminate timed out, killing", "job", id)
		_ = cmd.Process.Kill()
		<-done
	}
}

// CancelAll signals every registered process at shutdown. Best-effort:
// failures are ignored and nothing is awaited.
func (s *Service) CancelAll() {
	for id, cmd := range s.reg.Snapshot() {
		s.log.Info("terminating job at shutdown", "job", id)
		terminate(cmd)
	}
}

// fail reports a job-scoped error for a job that never entered the
// registry. It must not touch the registry: another job may legitimately
// own the entry under this id.
func (s *Service) fail(job *model.Job, err error) {
	job.Status = model.JobStatusFailed
	s.log.Error("download failed", "job", job.ID, "err", err)
	s.send(msg.NewError(job.ID, err.Error()))
}

// register publishes the registry entry and the reap channel atomically,
// so a cancel that observes the entry always finds the channel.
func (s *Service) register(id string, cmd *exec.Cmd) (chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reg.Insert(id, cmd); err != nil {
		return nil, err
	}
	done := make(chan struct{})
	s.reaped[id] = done
	return done, nil
}

func (s *Service) clearReaped(id string, ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reaped[id] == ch {
		delete(s.reaped, id)
	}
}

func (s *Service) reapedChan(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reaped[id]
}

func (s *Service) send(v any) {
	if err := s.emit.Send(v); err != nil {
		s.log.Error("event send failed", "err", err)
	}
}

// wireEvent converts a parsed event to its wire shape.
func wireEvent(ev *progress.Event) msg.ProgressEvent {
	e := msg.ProgressEvent{Type: msg.EventProgress, DownloadID: ev.DownloadID}
	switch ev.Kind {
	case progress.KindUpdate:
		e.Progress = msg.ProgressUpdate{
			Percent:    ev.Percent,
			Downloaded: ev.Downloaded,
			Total:      ev.Total,
			Speed:      ev.Speed,
			ETA:        ev.ETASeconds,
		}
	case progress.KindDestination:
		e.Progress = msg.ProgressDestination{Filename: ev.Filename}
	case progress.KindMerging:
		e.Progress = msg.ProgressMerging{Percent: ev.Percent, Status: msg.StatusMerging}
	}
	return e
}

// terminate asks the process to exit. Kill is the fallback where SIGTERM
// delivery is unsupported.
func terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = cmd.Process.Kill()
	}
}
