package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDownloadDirectory, settings.DownloadDirectory)
	assert.Equal(t, DefaultSubLangs, settings.SubLangs)
	assert.Equal(t, DefaultTerminateGrace, settings.TerminateGrace)
	assert.True(t, settings.LogEnabled)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `download_directory: /data/media
log_enabled: false
sub_langs: de,de-DE
terminate_grace: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/media", settings.DownloadDirectory)
	assert.False(t, settings.LogEnabled)
	assert.Equal(t, "de,de-DE", settings.SubLangs)
	assert.Equal(t, 2*time.Second, settings.TerminateGrace)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download_directory: /data\n"), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data", settings.DownloadDirectory)
	assert.Equal(t, DefaultSubLangs, settings.SubLangs)
	assert.Equal(t, DefaultTerminateGrace, settings.TerminateGrace)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download_directory: [\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestStoreWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download_directory: /first\n"), 0644))

	settings, err := Load(path)
	require.NoError(t, err)
	store := NewStore(path, settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx, slog.New(slog.NewTextHandler(io.Discard, nil))))

	require.NoError(t, os.WriteFile(path, []byte("download_directory: /second\n"), 0644))

	assert.Eventually(t, func() bool {
		return store.Current().DownloadDirectory == "/second"
	}, 3*time.Second, 20*time.Millisecond)
}
