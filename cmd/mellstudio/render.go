package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"

	"mell-studio/internal/config"
	"mell-studio/internal/studio"

	"github.com/spf13/cobra"
)

var (
	outputPath string
	formatFlag string
	width      int
	height     int
	seed       uint64
	maxSize    int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the selected character onto the canvas and save it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, false)
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Render a random valid character",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, true)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the frame region at the frame's native resolution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{Format: formatFlag})
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := applyPicks(s); err != nil {
			return err
		}

		out := outputPath
		if out == "" {
			out = "mell-frame.png"
		}
		f, err := pickFormat(cfg, formatFlag, out)
		if err != nil {
			return err
		}
		size := maxSize
		if size == 0 {
			size = cfg.ExportMaxSize
		}

		preloadEssential(cmd, s, cfg)
		var buf bytes.Buffer
		if err := s.ExportFrame(cmd.Context(), &buf, f, size); err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("Saved %s (%d bytes)\n", out, buf.Len())
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{renderCmd, randomCmd, exportCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file")
		cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "png or webp (default: from output extension)")
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{renderCmd, randomCmd} {
		cmd.Flags().IntVar(&width, "width", 0, "Canvas width in CSS pixels (default: config)")
		cmd.Flags().IntVar(&height, "height", 0, "Canvas height in CSS pixels (default: config)")
	}
	addSelectionFlags(renderCmd)
	addSelectionFlags(exportCmd)
	randomCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: random)")
	exportCmd.Flags().IntVar(&maxSize, "max-size", 0, "Shrink the export to fit within this many pixels")
}

func runRender(cmd *cobra.Command, random bool) error {
	cfg, err := loadConfig(config.Flags{Format: formatFlag, Width: width, Height: height})
	if err != nil {
		return err
	}
	var rng *rand.Rand
	if random && seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	s, err := openSession(cmd.Context(), cfg, rng)
	if err != nil {
		return err
	}
	defer s.Close()

	if random {
		s.Randomize()
	} else if err := applyPicks(s); err != nil {
		return err
	}

	out := outputPath
	if out == "" {
		out = "mell.png"
	}
	f, err := pickFormat(cfg, formatFlag, out)
	if err != nil {
		return err
	}

	preloadEssential(cmd, s, cfg)
	w, h := cfg.PixelSize()
	var buf bytes.Buffer
	if err := s.Save(cmd.Context(), &buf, f, w, h); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Print(describe(s.Catalog(), s.State()))
	fmt.Printf("Saved %s (%dx%d, %d bytes)\n", out, w, h, buf.Len())
	return nil
}

// preloadEssential loads the layers of the current selection in parallel
// before the sequential composite.
func preloadEssential(cmd *cobra.Command, s *studio.Session, cfg config.Config) {
	st, err := s.Cache().PreloadEssential(cmd.Context(), s.EssentialPaths(), cfg.Workers)
	if err != nil {
		return
	}
	if st.Failed > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d layer image(s) missing, see --verbose\n", st.Failed)
	}
}
