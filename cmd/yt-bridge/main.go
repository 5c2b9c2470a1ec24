package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-bridge/internal/config"
	"github.com/ytget/yt-bridge/internal/diaglog"
	"github.com/ytget/yt-bridge/internal/download"
	"github.com/ytget/yt-bridge/internal/framing"
	"github.com/ytget/yt-bridge/internal/host"
	"github.com/ytget/yt-bridge/internal/platform"
	"github.com/ytget/yt-bridge/internal/registry"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logFile    string
		quiet      bool
	)

	root := &cobra.Command{
		Use:   "yt-bridge [extension-origin]",
		Short: "Native messaging host bridging a browser extension to yt-dlp",
		Long: `yt-bridge speaks the Chrome native messaging protocol on stdin/stdout,
supervising yt-dlp download jobs on behalf of a browser extension and
relaying structured progress frames back to it.

The browser passes the extension origin as a positional argument; it is
logged and otherwise ignored.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logFile, quiet, args)
		},
		// stdout belongs to the protocol; cobra must not print there.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stderr)

	root.Flags().StringVar(&configPath, "config", config.DefaultPath(), "path to the settings file")
	root.Flags().StringVar(&logFile, "log-file", "", "override the diagnostic log location")
	root.Flags().BoolVar(&quiet, "quiet", false, "disable the diagnostic log")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the yt-bridge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.ErrOrStderr(), "yt-bridge", version)
		},
	})

	return root
}

func run(configPath, logFile string, quiet bool, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logFile != "" {
		settings.LogFile = logFile
	}
	if quiet {
		settings.LogEnabled = false
	}

	log := diaglog.Open(settings.LogFile, settings.LogEnabled)
	log.Info("starting", "version", version, "origin", args)

	store := config.NewStore(configPath, settings)

	downloadDir := platform.ExpandPath(settings.DownloadDirectory)
	if err := platform.CreateDirectoryIfNotExists(downloadDir); err != nil {
		log.Error("download directory unavailable", "dir", downloadDir, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Watch(ctx, log); err != nil {
		log.Error("config watch unavailable", "err", err)
	}

	codec := framing.New(os.Stdin, os.Stdout, log)
	reg := registry.New()
	dl := download.NewService(reg, codec, store, log, download.Options{})
	h := host.New(codec, dl, store, log)

	// A termination signal ends the host the same way a closed stream
	// does: signal every job, then exit.
	go func() {
		<-ctx.Done()
		h.Shutdown()
		os.Exit(0)
	}()

	return h.Run(ctx)
}
