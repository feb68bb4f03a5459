package main

import (
	"fmt"
	"os"
	"strings"

	"mell-studio/internal/catalog"
	"mell-studio/internal/config"

	"github.com/spf13/cobra"
)

var checkFiles bool

var optionsCmd = &cobra.Command{
	Use:   "options [category]",
	Short: "List the selectable options of every category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := catalog.Categories()
		if len(args) == 1 {
			cat, err := catalog.ParseCategory(args[0])
			if err != nil {
				return err
			}
			cats = []catalog.Category{cat}
		}

		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}
		s, err := openSession(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		c := s.Catalog()
		for _, cat := range cats {
			opts := c.Options(cat)
			fmt.Printf("%s (%d):\n", cat, len(opts))
			if cat.Optional() {
				fmt.Println("  none")
			}
			for i, o := range opts {
				mark := ""
				if cat == catalog.Clothes && c.IsSpecialOutfit(i) {
					mark = "  [no hats]"
				}
				fmt.Printf("  #%-3d %s%s\n", i, o.Label, mark)
			}
		}
		return nil
	},
}

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Print the layer stack for a selection, bottom first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{})
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

		fmt.Println(s.State())
		missing := 0
		for i, p := range s.Layers() {
			status := ""
			if checkFiles {
				if _, err := s.Cache().Load(cmd.Context(), p); err != nil {
					status = "  MISSING"
					missing++
				}
			}
			fmt.Printf("  %2d  %s%s\n", i+1, p, status)
		}
		if missing > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d layers could not be loaded\n", missing, len(s.Layers()))
		}
		return nil
	},
}

func init() {
	optionsCmd.Long = "List the selectable options of every category.\n\nCategories: " + categoryNames() + "."
	layersCmd.Flags().BoolVar(&checkFiles, "check", false, "Load every layer and mark missing files")
	addSelectionFlags(layersCmd)
	rootCmd.AddCommand(optionsCmd, layersCmd)
}

func categoryNames() string {
	names := make([]string, 0, catalog.NumCategories)
	for _, cat := range catalog.Categories() {
		names = append(names, cat.String())
	}
	return strings.Join(names, ", ")
}
