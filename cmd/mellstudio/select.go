package main

import (
	"fmt"
	"strconv"
	"strings"

	"mell-studio/internal/catalog"
	"mell-studio/internal/selection"
	"mell-studio/internal/studio"

	"github.com/spf13/cobra"
)

// picks holds one --<category> flag value per category: an option label,
// an index written as #N, or "none".
var picks = map[catalog.Category]*string{}

func flagName(cat catalog.Category) string {
	if cat == catalog.EyeColor {
		return "eye-color"
	}
	return cat.String()
}

func addSelectionFlags(cmd *cobra.Command) {
	for _, cat := range catalog.Categories() {
		v, ok := picks[cat]
		if !ok {
			v = new(string)
			picks[cat] = v
		}
		usage := fmt.Sprintf("%s option: label, or #N for index N (a bare number is tried as a label first)", cat)
		if cat.Optional() {
			usage += ` ("none" to clear)`
		}
		cmd.Flags().StringVar(v, flagName(cat), "", usage)
	}
}

// parseChoice maps a flag value to a choice. "#N" always means index N.
// Otherwise a matching label wins, so "--eye 2" picks the eye labelled "2";
// a bare number with no matching label is an index. -1 is accepted as
// "none" for scripts written against index-based selection.
func parseChoice(c *catalog.Catalog, cat catalog.Category, v string) (selection.Choice, error) {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "none", "-1", "#-1":
		return selection.None(), nil
	}
	if n, ok := strings.CutPrefix(v, "#"); ok {
		i, err := strconv.Atoi(n)
		if err != nil {
			return selection.None(), fmt.Errorf("bad %s index %q", cat, v)
		}
		return selection.Pick(i), nil
	}
	if i, ok := c.Find(cat, v); ok {
		return selection.Pick(i), nil
	}
	if i, err := strconv.Atoi(v); err == nil {
		return selection.Pick(i), nil
	}
	return selection.None(), fmt.Errorf("no %s option %q", cat, v)
}

// applyPicks selects every category given on the command line, in category
// order, so later categories win any cross-category conflict.
func applyPicks(s *studio.Session) error {
	for _, cat := range catalog.Categories() {
		v, ok := picks[cat]
		if !ok || *v == "" {
			continue
		}
		ch, err := parseChoice(s.Catalog(), cat, *v)
		if err != nil {
			return err
		}
		if err := s.Select(cat, ch); err != nil {
			return fmt.Errorf("--%s: %w", flagName(cat), err)
		}
	}
	return nil
}

// describe lists the selected label of every category.
func describe(c *catalog.Catalog, st selection.State) string {
	var b strings.Builder
	for _, cat := range catalog.Categories() {
		label := "-"
		if i, ok := st.Get(cat).Index(); ok {
			if o, ok := c.Option(cat, i); ok {
				label = o.Label
			}
		}
		fmt.Fprintf(&b, "  %-10s %s\n", cat, label)
	}
	return b.String()
}
