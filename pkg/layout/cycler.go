package layout

import (
	"errors"

	errs "github.com/matzehuels/mindtower/pkg/errors"
)

// ErrNoPresets is returned by [NewCycler] for an empty preset list.
var ErrNoPresets = errors.New("at least one layout preset is required")

// Cycler steps through a fixed list of presets.
//
// Advancing the cycler marks the preset as changed until [Cycler.TakeChanged]
// consumes the flag, which is how the engine decides that the next position
// merge is a full reset.
type Cycler struct {
	presets []Preset
	index   int
	changed bool
}

// NewCycler returns a cycler positioned at the first preset.
func NewCycler(presets []Preset) (*Cycler, error) {
	if len(presets) == 0 {
		return nil, ErrNoPresets
	}
	return &Cycler{presets: append([]Preset(nil), presets...)}, nil
}

// Current returns the active preset.
func (c *Cycler) Current() Preset { return c.presets[c.index] }

// Index returns the position of the active preset.
func (c *Cycler) Index() int { return c.index }

// Len returns the number of presets.
func (c *Cycler) Len() int { return len(c.presets) }

// Presets returns a copy of the preset list.
func (c *Cycler) Presets() []Preset { return append([]Preset(nil), c.presets...) }

// Cycle advances to the next preset, wrapping around, and returns it.
func (c *Cycler) Cycle() Preset {
	c.index = (c.index + 1) % len(c.presets)
	c.changed = true
	return c.Current()
}

// SetIndex jumps to preset i. Out-of-range values are clamped modulo the
// list length and reported as an INVALID_PRESET_INDEX error; the cycler is
// usable either way. Selecting the active preset does not mark a change.
func (c *Cycler) SetIndex(i int) error {
	var err error
	n := len(c.presets)
	if i < 0 || i >= n {
		err = errs.New(errs.ErrCodeInvalidPresetIndex, "preset index %d out of range [0, %d)", i, n)
		i = ((i % n) + n) % n
	}
	if i != c.index {
		c.index = i
		c.changed = true
	}
	return err
}

// TakeChanged reports whether the preset changed since the last call and
// clears the flag.
func (c *Cycler) TakeChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}
