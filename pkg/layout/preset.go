package layout

import (
	"fmt"
	"strings"
)

// Direction is the growth direction of the tree.
type Direction int

const (
	TopDown Direction = iota
	LeftRight
	BottomUp
	RightLeft
)

var directionNames = [...]string{
	TopDown:   "TB",
	LeftRight: "LR",
	BottomUp:  "BT",
	RightLeft: "RL",
}

// String returns the short Graphviz-style name: TB, LR, BT or RL.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Horizontal reports whether the tree grows along the x axis.
func (d Direction) Horizontal() bool { return d == LeftRight || d == RightLeft }

// ParseDirection accepts the short names and the spelled-out forms
// ("top-down", "left-right", "bottom-up", "right-left"), case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tb", "td", "top-down", "topdown":
		return TopDown, nil
	case "lr", "left-right", "leftright":
		return LeftRight, nil
	case "bt", "bu", "bottom-up", "bottomup":
		return BottomUp, nil
	case "rl", "right-left", "rightleft":
		return RightLeft, nil
	}
	return TopDown, fmt.Errorf("invalid direction: %q (must be one of: TB, LR, BT, RL)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Preset is a named combination of growth direction and spacing.
type Preset struct {
	Name           string    `json:"name" toml:"name"`
	Direction      Direction `json:"direction" toml:"direction"`
	SiblingSpacing float64   `json:"siblingSpacing" toml:"sibling_spacing"`
	LevelSpacing   float64   `json:"levelSpacing" toml:"level_spacing"`
}

// Validate checks that spacings are positive.
func (p Preset) Validate() error {
	if p.SiblingSpacing <= 0 {
		return fmt.Errorf("preset %q: sibling_spacing must be positive", p.Name)
	}
	if p.LevelSpacing <= 0 {
		return fmt.Errorf("preset %q: level_spacing must be positive", p.Name)
	}
	if p.Direction < TopDown || p.Direction > RightLeft {
		return fmt.Errorf("preset %q: invalid direction %d", p.Name, int(p.Direction))
	}
	return nil
}

// DefaultNodeSize is the cross-axis extent of a single node.
const DefaultNodeSize = 180.0

// DefaultPresets returns the built-in preset cycle.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "top-down", Direction: TopDown, SiblingSpacing: 40, LevelSpacing: 160},
		{Name: "left-right", Direction: LeftRight, SiblingSpacing: 24, LevelSpacing: 280},
		{Name: "bottom-up", Direction: BottomUp, SiblingSpacing: 40, LevelSpacing: 160},
		{Name: "right-left", Direction: RightLeft, SiblingSpacing: 24, LevelSpacing: 280},
	}
}
