// Package selection holds the user's choice per category and the rules that
// keep the combination drawable.
package selection

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"mell-studio/internal/catalog"
)

var (
	ErrOutOfRange      = errors.New("selection: index out of range")
	ErrNotOptional     = errors.New("selection: category requires a choice")
	ErrUnknownCategory = errors.New("selection: unknown category")
	ErrConflict        = errors.New("selection: special outfit cannot be worn with a hat")
)

// Choice is either an option index or no selection.
type Choice struct {
	index int
	set   bool
}

// None is the empty choice.
func None() Choice { return Choice{} }

// Pick selects option i.
func Pick(i int) Choice { return Choice{index: i, set: true} }

// Index returns the option index and whether one is selected.
func (c Choice) Index() (int, bool) { return c.index, c.set }

// IsNone reports whether nothing is selected.
func (c Choice) IsNone() bool { return !c.set }

func (c Choice) String() string {
	if !c.set {
		return "none"
	}
	return strconv.Itoa(c.index)
}

// State is one choice per category. It is a value type: every operation
// returns a new State and leaves the receiver untouched.
type State struct {
	choices [catalog.NumCategories]Choice
}

// Get returns the choice for cat.
func (s State) Get(cat catalog.Category) Choice {
	if !cat.Valid() {
		return None()
	}
	return s.choices[cat]
}

func (s State) with(cat catalog.Category, ch Choice) State {
	s.choices[cat] = ch
	return s
}

func (s State) String() string {
	var b strings.Builder
	for i, cat := range catalog.Categories() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", cat, s.choices[cat])
	}
	return b.String()
}

func defaultChoice(c *catalog.Catalog, cat catalog.Category) Choice {
	if cat.Optional() || c.Len(cat) == 0 {
		return None()
	}
	return Pick(0)
}

// Default is the state right after a catalog load: the first option of every
// required category, no accessory, no hat.
func Default(c *catalog.Catalog) State {
	var s State
	for _, cat := range catalog.Categories() {
		s.choices[cat] = defaultChoice(c, cat)
	}
	return ApplyConstraints(s, c, catalog.Clothes)
}

// Select sets cat to ch and applies the cross-category rules. Invalid
// requests return an error and the receiver unchanged.
func (s State) Select(c *catalog.Catalog, cat catalog.Category, ch Choice) (State, error) {
	if !cat.Valid() {
		return s, fmt.Errorf("%w: %d", ErrUnknownCategory, int(cat))
	}
	if i, ok := ch.Index(); ok {
		if n := c.Len(cat); i < 0 || i >= n {
			return s, fmt.Errorf("%w: %s index %d (have %d)", ErrOutOfRange, cat, i, n)
		}
	} else if !cat.Optional() {
		return s, fmt.Errorf("%w: %s", ErrNotOptional, cat)
	}
	return ApplyConstraints(s.with(cat, ch), c, cat), nil
}

// Reset restores cat to its default choice.
func (s State) Reset(c *catalog.Catalog, cat catalog.Category) State {
	if !cat.Valid() {
		return s
	}
	return ApplyConstraints(s.with(cat, defaultChoice(c, cat)), c, cat)
}

// Randomize picks every category uniformly and independently. Optional
// categories count "none" as one of the choices. The result always
// satisfies ApplyConstraints.
func Randomize(c *catalog.Catalog, rng *rand.Rand) State {
	var s State
	for _, cat := range catalog.Categories() {
		n := c.Len(cat)
		switch {
		case cat.Optional():
			if i := rng.IntN(n + 1); i < n {
				s.choices[cat] = Pick(i)
			}
		case n > 0:
			s.choices[cat] = Pick(rng.IntN(n))
		}
	}
	return ApplyConstraints(s, c, catalog.Clothes)
}

// ApplyConstraints resolves conflicts introduced by a change to trigger.
// The special outfit and a hat are mutually exclusive: choosing the outfit
// takes the hat off, choosing a hat swaps the outfit for the first regular one.
func ApplyConstraints(s State, c *catalog.Catalog, trigger catalog.Category) State {
	clothes, ok := s.choices[catalog.Clothes].Index()
	if !ok || !c.IsSpecialOutfit(clothes) || s.choices[catalog.Hat].IsNone() {
		return s
	}
	if trigger == catalog.Hat {
		if i, ok := firstRegularOutfit(c); ok {
			return s.with(catalog.Clothes, Pick(i))
		}
	}
	return s.with(catalog.Hat, None())
}

// firstRegularOutfit is index 0 unless that option is itself the special outfit.
func firstRegularOutfit(c *catalog.Catalog) (int, bool) {
	for i := range c.Options(catalog.Clothes) {
		if !c.IsSpecialOutfit(i) {
			return i, true
		}
	}
	return 0, false
}

// Validate checks every invariant of s against c.
func (s State) Validate(c *catalog.Catalog) error {
	for _, cat := range catalog.Categories() {
		ch := s.choices[cat]
		i, ok := ch.Index()
		if !ok {
			if !cat.Optional() && c.Len(cat) > 0 {
				return fmt.Errorf("%w: %s", ErrNotOptional, cat)
			}
			continue
		}
		if n := c.Len(cat); i < 0 || i >= n {
			return fmt.Errorf("%w: %s index %d (have %d)", ErrOutOfRange, cat, i, n)
		}
	}
	if i, ok := s.choices[catalog.Clothes].Index(); ok && c.IsSpecialOutfit(i) && !s.choices[catalog.Hat].IsNone() {
		return ErrConflict
	}
	return nil
}
