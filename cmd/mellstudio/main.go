package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"mell-studio/internal/compose"
	"mell-studio/internal/config"
	"mell-studio/internal/studio"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var (
	configPath string
	assetRoot  string
	workers    int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "mellstudio",
	Short:         "Compose MELL avatar images from layered part art",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.json file")
	rootCmd.PersistentFlags().StringVarP(&assetRoot, "assets", "a", "", "Asset root directory (default: auto-detect)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent image loads (default: NumCPU)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped layers and cache activity")
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(flags config.Flags) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}

	flags.AssetRoot = assetRoot
	flags.Workers = workers
	cfg.Resolve(flags)

	if cfg.AssetRoot == "" {
		return cfg, fmt.Errorf("cannot find the asset directory, use --assets or config.json")
	}
	return cfg, nil
}

// openSession starts a session over the configured asset root. A missing
// manifest is reported but not fatal. rng may be nil.
func openSession(ctx context.Context, cfg config.Config, rng *rand.Rand) (*studio.Session, error) {
	s, err := studio.Open(ctx, studio.Options{
		FS:           osfs.New(cfg.AssetRoot),
		ManifestPath: cfg.Manifest,
		Frame:        cfg.Frame,
		Background:   cfg.Background,
		Geometry:     cfg.Geometry,
		PixelRatio:   cfg.DevicePixelRatio,
		Workers:      cfg.Workers,
		PreloadBatch: cfg.PreloadBatch,
		PreloadPause: time.Duration(cfg.PreloadPauseMS) * time.Millisecond,
		Rand:         rng,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Degraded(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (run generate first)\n", err)
	}
	return s, nil
}

// pickFormat prefers an explicit --format, then the output file extension,
// then the configured export format.
func pickFormat(cfg config.Config, flag, output string) (compose.Format, error) {
	if flag != "" {
		return compose.ParseFormat(flag)
	}
	if ext := filepath.Ext(output); ext != "" {
		if f, err := compose.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return compose.ParseFormat(cfg.ExportFormat)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
