package platform

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Tool names
const (
	YTDLPCommand  = "yt-dlp"
	FFmpegCommand = "ffmpeg"
)

// Version probing
const (
	VersionFlag    = "--version"
	VersionTimeout = 10 * time.Second

	VersionUnknown  = "unknown"
	VersionNotFound = "not found"
)

// Filename sanitization
const (
	InvalidFilenameChars = `<>:"/\|?*`
	MaxFilenameLength    = 200
	ReplacementChar      = "_"
)

// Candidate install locations checked before falling back to PATH
var (
	ytdlpCandidateDirs = []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		"/usr/bin",
	}

	ffmpegCandidateDirs = []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		"/usr/bin",
	}
)

var ffmpegVersionPattern = regexp.MustCompile(`ffmpeg version (\S+)`)

// FindYTDLP locates the yt-dlp executable: first match among fixed
// candidate locations, then a PATH lookup, then the bare command name.
func FindYTDLP() string {
	candidates := candidatePaths(ytdlpCandidateDirs, YTDLPCommand)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "bin", YTDLPCommand))
	}
	return findTool(candidates, YTDLPCommand)
}

// FindFFmpeg locates the ffmpeg executable with the same strategy.
func FindFFmpeg() string {
	return findTool(candidatePaths(ffmpegCandidateDirs, FFmpegCommand), FFmpegCommand)
}

func candidatePaths(dirs []string, name string) []string {
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

func findTool(candidates []string, name string) string {
	for _, path := range candidates {
		if isExecutable(path) {
			return path
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}

// ToolVersion runs `<tool> --version` and extracts a version string. It
// reports "unknown" for a nonzero exit and "not found" when the tool
// cannot be launched at all.
func ToolVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, VersionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, VersionFlag).Output()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return VersionUnknown
		}
		return VersionNotFound
	}
	return parseVersionOutput(path, string(out))
}

// parseVersionOutput extracts the version token from tool output. ffmpeg
// prints a banner ("ffmpeg version N.N ..."); yt-dlp prints the version as
// its first line.
func parseVersionOutput(path, output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return VersionUnknown
	}

	if strings.Contains(strings.ToLower(filepath.Base(path)), FFmpegCommand) {
		if m := ffmpegVersionPattern.FindStringSubmatch(output); m != nil {
			return m[1]
		}
		return VersionUnknown
	}

	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		return output[:idx]
	}
	return output
}

// SanitizeFilename replaces characters that are invalid in filenames and
// truncates overly long names.
func SanitizeFilename(name string) string {
	for _, c := range InvalidFilenameChars {
		name = strings.ReplaceAll(name, string(c), ReplacementChar)
	}
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}
	return name
}

// ExpandPath expands the leading ~ and any environment variables in path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, 0755)
	}
	return nil
}
