package download

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-bridge/internal/config"
	"github.com/ytget/yt-bridge/internal/model"
	"github.com/ytget/yt-bridge/internal/msg"
	"github.com/ytget/yt-bridge/internal/registry"
)

func buildTestService() *Service {
	return NewService(registry.New(), &captureEmitter{}, config.NewStore("", config.Default()),
		slog.New(slog.NewTextHandler(io.Discard, nil)), Options{YTDLPPath: "/opt/yt-dlp", FFmpegPath: "/opt/ffmpeg/ffmpeg"})
}

func request(mutate func(*msg.Request)) msg.DownloadRequest {
	raw := msg.Request{
		Action:     msg.ActionDownload,
		DownloadID: "d1",
		URL:        "https://example/x",
		Title:      "My Video",
		Output:     "/downloads",
	}
	if mutate != nil {
		mutate(&raw)
	}
	req, err := raw.Download()
	if err != nil {
		panic(err)
	}
	return req
}

func TestBuildCommandVideo(t *testing.T) {
	svc := buildTestService()
	req := request(nil)
	job := &model.Job{ID: req.DownloadID, Title: req.Title, Extension: req.Extension}

	cmd := svc.buildCommand(req, job)
	args := cmd.Args

	assert.Equal(t, "/opt/yt-dlp", args[0])
	assertFlag(t, args, "--ffmpeg-location", "/opt/ffmpeg")
	assertFlag(t, args, "-f", msg.DefaultFormat)
	assertFlag(t, args, "-o", "/downloads/My Video.%(ext)s")
	assertFlag(t, args, "--merge-output-format", "mp4")
	assert.Contains(t, args, "--no-playlist")
	assert.Contains(t, args, "--no-mtime")
	assert.Contains(t, args, "--progress")
	assert.Contains(t, args, "--newline")
	assert.NotContains(t, args, "-x")

	// URL is always the final argument.
	assert.Equal(t, "https://example/x", args[len(args)-1])
}

func TestBuildCommandAudioOnly(t *testing.T) {
	svc := buildTestService()
	req := request(func(r *msg.Request) {
		r.AudioOnly = true
		r.Extension = "mp3"
		r.AudioQuality = "192K"
	})
	job := &model.Job{ID: req.DownloadID, Title: req.Title, Extension: req.Extension}

	args := svc.buildCommand(req, job).Args

	assert.Contains(t, args, "-x")
	assertFlag(t, args, "--audio-format", "mp3")
	assertFlag(t, args, "--audio-quality", "192K")
	assert.NotContains(t, args, "--merge-output-format")
}

func TestBuildCommandAudioQualityOnlyForMP3(t *testing.T) {
	svc := buildTestService()
	req := request(func(r *msg.Request) {
		r.AudioOnly = true
		r.Extension = "opus"
		r.AudioQuality = "192K"
	})
	job := &model.Job{ID: req.DownloadID, Title: req.Title, Extension: req.Extension}

	args := svc.buildCommand(req, job).Args

	assertFlag(t, args, "--audio-format", "opus")
	assert.NotContains(t, args, "--audio-quality")
}

func TestBuildCommandSubtitles(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		embedded  bool
	}{
		{"embedded for mp4", "mp4", true},
		{"embedded for mkv", "mkv", true},
		{"converted for webm", "webm", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := buildTestService()
			req := request(func(r *msg.Request) {
				r.Subtitles = true
				r.Extension = tt.extension
			})
			job := &model.Job{ID: req.DownloadID, Title: req.Title, Extension: req.Extension}

			args := svc.buildCommand(req, job).Args

			assert.Contains(t, args, "--write-subs")
			assert.Contains(t, args, "--write-auto-subs")
			assertFlag(t, args, "--sub-langs", config.DefaultSubLangs)
			if tt.embedded {
				assert.Contains(t, args, "--embed-subs")
				assert.NotContains(t, args, "--convert-subs")
			} else {
				assertFlag(t, args, "--convert-subs", "srt")
				assert.NotContains(t, args, "--embed-subs")
			}
		})
	}
}

func TestBuildCommandSanitizedTitleInTemplate(t *testing.T) {
	svc := buildTestService()
	req := request(func(r *msg.Request) {
		r.Title = `Video: "Best"?`
	})
	job := &model.Job{ID: req.DownloadID, Title: "Video_ _Best__", Extension: req.Extension}

	args := svc.buildCommand(req, job).Args

	for i, arg := range args {
		if arg == "-o" {
			require.Less(t, i+1, len(args))
			assert.False(t, strings.ContainsAny(args[i+1], `"?`),
				"output template %q contains unsanitized characters", args[i+1])
			return
		}
	}
	t.Fatal("no -o flag in args")
}

// assertFlag checks that flag is immediately followed by value.
func assertFlag(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i, arg := range args {
		if arg == flag {
			require.Less(t, i+1, len(args), "flag %s has no value", flag)
			assert.Equal(t, value, args[i+1], "value of %s", flag)
			return
		}
	}
	t.Errorf("flag %s not present in %v", flag, args)
}
