package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name", "My Video", "My Video"},
		{"slashes", "a/b\\c", "a_b_c"},
		{"all invalid chars", `<>:"/\|?*`, "_________"},
		{"mixed", `Video: "Best" of 2024?`, "Video_ _Best_ of 2024_"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxFilenameLength+50)
	assert.Len(t, SanitizeFilename(long), MaxFilenameLength)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("YT_BRIDGE_TEST_DIR", "/data/media")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde", "~/Downloads", filepath.Join(home, "Downloads")},
		{"bare tilde", "~", home},
		{"env var", "$YT_BRIDGE_TEST_DIR/out", "/data/media/out"},
		{"absolute untouched", "/tmp/out", "/tmp/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		output   string
		expected string
	}{
		{
			name:     "ytdlp first line",
			path:     "/usr/local/bin/yt-dlp",
			output:   "2025.08.11\n",
			expected: "2025.08.11",
		},
		{
			name:     "ytdlp multiline",
			path:     "yt-dlp",
			output:   "2025.08.11\nextra diagnostics\n",
			expected: "2025.08.11",
		},
		{
			name:     "ffmpeg banner",
			path:     "/usr/bin/ffmpeg",
			output:   "ffmpeg version 7.1.1 Copyright (c) 2000-2025 the FFmpeg developers\nbuilt with gcc",
			expected: "7.1.1",
		},
		{
			name:     "ffmpeg unexpected banner",
			path:     "ffmpeg",
			output:   "something else entirely",
			expected: VersionUnknown,
		},
		{
			name:     "empty output",
			path:     "yt-dlp",
			output:   "",
			expected: VersionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseVersionOutput(tt.path, tt.output))
		})
	}
}

func TestFindToolFallsBackToBareName(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	assert.Equal(t, "definitely-not-installed",
		findTool([]string{"/nonexistent/definitely-not-installed"}, "definitely-not-installed"))
}

func TestFindToolPrefersCandidate(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "fake-tool")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755))

	assert.Equal(t, tool, findTool([]string{tool}, "fake-tool"))
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")

	require.NoError(t, CreateDirectoryIfNotExists(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing directory is a no-op.
	require.NoError(t, CreateDirectoryIfNotExists(dir))
}
