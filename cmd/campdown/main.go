package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/catlinman/campdown/internal/config"
	"github.com/catlinman/campdown/internal/download"
	"github.com/catlinman/campdown/internal/logging"
)

const version = "1.46"

var opts struct {
	output     string
	configPath string
	quiet      bool
	short      bool
	noArt      bool
	noID3      bool
	sleep      float64
	verbose    bool
	dryRun     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campdown <url> [output folder]",
		Short: "Download tracks, albums and discographies from Bandcamp",
		Long: `campdown downloads the openly streamed 128 kbit/s MP3s behind Bandcamp
track, album and artist pages, tags them and saves cover art.

The URL may point at a single track, an album or an artist page. Artist
pages expand into every album and track linked from them.`,
		Example: `  campdown https://artist.bandcamp.com/album/album-name
  campdown https://artist.bandcamp.com/track/track-name ~/Music
  campdown --short --no-art https://artist.bandcamp.com`,
		Version:      version,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output folder (defaults to the working directory)")
	flags.StringVar(&opts.configPath, "config", "", "path to a campdown.yaml config file")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	flags.BoolVarP(&opts.short, "short", "s", false, "use short file names without artist and album")
	flags.BoolVar(&opts.noArt, "no-art", false, "skip downloading and embedding cover art")
	flags.BoolVar(&opts.noID3, "no-id3", false, "skip writing ID3 tags")
	flags.Float64Var(&opts.sleep, "sleep", 30, "seconds to wait between download retries")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "resolve releases without downloading anything")
	flags.BoolP("version", "v", false, "print the version and exit")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Flags override the config file; the positional folder wins over -o.
	if opts.output != "" {
		settings.OutputPath = opts.output
	}
	if len(args) == 2 {
		settings.OutputPath = args[1]
	}
	if opts.short {
		settings.ShortNames = true
	}
	if opts.noArt {
		settings.SaveArtwork = false
		settings.EmbedArtwork = false
	}
	if opts.noID3 {
		settings.WriteTags = false
	}
	if cmd.Flags().Changed("sleep") {
		settings.DownloadRetrySleep = opts.sleep
	}
	if opts.verbose {
		settings.LogLevel = "debug"
	}
	if opts.quiet {
		settings.LogLevel = "error"
	}
	settings.DryRun = opts.dryRun

	logger := logging.New(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
		if opts.quiet {
			return
		}
		if event.Level == download.LevelVerbose && !opts.verbose {
			return
		}
		fmt.Println(event.Message)
	})

	if err := manager.Resolve(ctx, args[0]); err != nil {
		if ctx.Err() != nil {
			exitCancelled()
		}
		return err
	}

	if err := manager.Start(ctx); err != nil || ctx.Err() != nil {
		if ctx.Err() != nil {
			exitCancelled()
		}
		return err
	}

	received, _, completed, total := manager.Progress()

	var tracks int
	for _, release := range manager.Releases() {
		tracks += len(release.Tracks)
	}
	if failed := manager.Failed(); failed > 0 {
		if failed >= tracks {
			return fmt.Errorf("all %d downloads failed", failed)
		}
		logger.Warn("run finished with failures", zap.Int("failed", failed))
	}

	if !opts.quiet {
		fmt.Printf("Done. %d/%d files (%.2f MB)\n", completed, total, float64(received)/1024/1024)
	}

	return nil
}

func exitCancelled() {
	fmt.Fprintln(os.Stderr, "Cancelled.")
	os.Exit(130)
}
