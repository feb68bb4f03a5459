package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"mell-studio/internal/config"
	"mell-studio/internal/manifest"
	"mell-studio/internal/preview"
	"mell-studio/internal/scan"

	"github.com/go-git/go-billy/v5/osfs"
)

func main() {
	root := config.DetectAssetRoot()
	if root == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find the asset directory (expected hair/ or parts.manifest.json).")
		os.Exit(1)
	}
	fmt.Printf("Scanning: %s\n", root)

	fs := osfs.New(root)
	m, err := scan.Generate(fs, filepath.Base(root), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning assets: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("PNG files: %d\n", m.Count)

	if err := m.WriteFS(fs, manifest.FileName); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", filepath.Join(root, manifest.FileName))

	if err := preview.WriteFS(fs, preview.FileName, m); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: preview: %v\n", err)
	} else {
		fmt.Printf("Generated %s\n", filepath.Join(root, preview.FileName))
	}

	// Count by layer
	counts := scan.CountByLayer(m)
	layers := make([]string, 0, len(counts))
	for l := range counts {
		layers = append(layers, string(l))
	}
	sort.Strings(layers)
	fmt.Println("Parts by type:")
	for _, l := range layers {
		fmt.Printf("  %-12s %d\n", l, counts[manifest.LayerType(l)])
	}
}
