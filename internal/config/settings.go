// Package config loads and watches the host's settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-bridge/internal/platform"
)

// Settings file location
const (
	ConfigDirName  = "yt-bridge"
	ConfigFileName = "config.yaml"
)

// Default values
const (
	DefaultDownloadDirectory = "~/Downloads"
	DefaultLogFileName       = "yt-bridge.log"
	DefaultLogEnabled        = true
	DefaultSubLangs          = "en,en-US"
	DefaultTerminateGrace    = 5 * time.Second
)

// Settings holds the host configuration. A missing file or missing keys
// fall back to defaults.
type Settings struct {
	DownloadDirectory string        `yaml:"download_directory"`
	LogFile           string        `yaml:"log_file"`
	LogEnabled        bool          `yaml:"log_enabled"`
	SubLangs          string        `yaml:"sub_langs"`
	TerminateGrace    time.Duration `yaml:"terminate_grace"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		DownloadDirectory: DefaultDownloadDirectory,
		LogFile:           defaultLogPath(),
		LogEnabled:        DefaultLogEnabled,
		SubLangs:          DefaultSubLangs,
		TerminateGrace:    DefaultTerminateGrace,
	}
}

// DefaultPath returns the standard settings file location
// (~/.config/yt-bridge/config.yaml).
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, ConfigDirName, ConfigFileName)
}

func defaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, ConfigDirName, DefaultLogFileName)
}

// Load reads settings from path. A missing file yields the defaults; a
// malformed file is an error.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(platform.ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	settings.applyDefaults()
	return settings, nil
}

// applyDefaults fills fields the file left empty.
func (s *Settings) applyDefaults() {
	if s.DownloadDirectory == "" {
		s.DownloadDirectory = DefaultDownloadDirectory
	}
	if s.SubLangs == "" {
		s.SubLangs = DefaultSubLangs
	}
	if s.TerminateGrace <= 0 {
		s.TerminateGrace = DefaultTerminateGrace
	}
}
