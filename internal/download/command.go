package download

import (
	"os/exec"
	"path/filepath"

	"github.com/ytget/yt-bridge/internal/model"
	"github.com/ytget/yt-bridge/internal/msg"
	"github.com/ytget/yt-bridge/internal/platform"
)

// Audio extensions yt-dlp can transcode to directly
var audioFormats = map[string]bool{
	"mp3":  true,
	"m4a":  true,
	"opus": true,
}

// Container formats accepted by --merge-output-format
var mergeFormats = map[string]bool{
	"mp4":  true,
	"mkv":  true,
	"webm": true,
}

// Containers that can carry embedded subtitles
var embedSubsFormats = map[string]bool{
	"mp4": true,
	"mkv": true,
}

// buildCommand constructs the yt-dlp invocation for a job. The output
// template uses the sanitized title with the extension placeholder
// resolved by yt-dlp itself.
func (s *Service) buildCommand(req msg.DownloadRequest, job *model.Job) *exec.Cmd {
	ytdlpPath := s.opts.YTDLPPath
	if ytdlpPath == "" {
		ytdlpPath = platform.FindYTDLP()
	}
	ffmpegPath := s.opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = platform.FindFFmpeg()
	}

	outputTemplate := filepath.Join(platform.ExpandPath(req.Output), job.Title+".%(ext)s")

	args := []string{
		"--ffmpeg-location", filepath.Dir(ffmpegPath),
		"-f", req.Format,
		"-o", outputTemplate,
		"--no-playlist",
		"--no-mtime",
		"--progress",
		"--newline",
	}

	if req.AudioOnly {
		args = append(args, "-x")
		if audioFormats[req.Extension] {
			args = append(args, "--audio-format", req.Extension)
		}
		if req.Extension == "mp3" && req.AudioQuality != "" {
			args = append(args, "--audio-quality", req.AudioQuality)
		}
	} else if mergeFormats[req.Extension] {
		args = append(args, "--merge-output-format", req.Extension)
	}

	if req.Subtitles {
		args = append(args,
			"--write-subs",
			"--write-auto-subs",
			"--sub-langs", s.store.Current().SubLangs,
		)
		if embedSubsFormats[req.Extension] {
			args = append(args, "--embed-subs")
		} else {
			args = append(args, "--convert-subs", "srt")
		}
	}

	args = append(args, req.URL)
	return exec.Command(ytdlpPath, args...)
}
