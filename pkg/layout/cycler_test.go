package layout

import (
	"errors"
	"testing"

	errs "github.com/matzehuels/mindtower/pkg/errors"
)

func TestNewCyclerRejectsEmpty(t *testing.T) {
	if _, err := NewCycler(nil); !errors.Is(err, ErrNoPresets) {
		t.Errorf("NewCycler(nil) error = %v, want ErrNoPresets", err)
	}
}

func TestCyclerWrapsAround(t *testing.T) {
	c, err := NewCycler(DefaultPresets())
	if err != nil {
		t.Fatal(err)
	}
	if c.TakeChanged() {
		t.Error("fresh cycler should not report a change")
	}
	start := c.Current()
	for i := 0; i < c.Len(); i++ {
		c.Cycle()
	}
	if c.Current() != start || c.Index() != 0 {
		t.Errorf("after %d cycles got %q at %d, want %q at 0", c.Len(), c.Current().Name, c.Index(), start.Name)
	}
	if !c.TakeChanged() {
		t.Error("Cycle should mark a change")
	}
	if c.TakeChanged() {
		t.Error("TakeChanged should clear the flag")
	}
}

func TestCyclerSetIndex(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		want    int
		wantErr bool
	}{
		{"in range", 2, 2, false},
		{"past end", 5, 1, true},
		{"negative", -1, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewCycler(DefaultPresets())
			err := c.SetIndex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetIndex(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errs.Is(err, errs.ErrCodeInvalidPresetIndex) {
				t.Errorf("error code = %s, want %s", errs.GetCode(err), errs.ErrCodeInvalidPresetIndex)
			}
			if c.Index() != tt.want {
				t.Errorf("Index() = %d, want %d", c.Index(), tt.want)
			}
			if !c.TakeChanged() {
				t.Error("moving to another preset should mark a change")
			}
		})
	}
}

func TestCyclerSetIndexSameIsNoChange(t *testing.T) {
	c, _ := NewCycler(DefaultPresets())
	if err := c.SetIndex(0); err != nil {
		t.Fatal(err)
	}
	if c.TakeChanged() {
		t.Error("selecting the active preset should not mark a change")
	}
}

func TestCyclerCopiesPresets(t *testing.T) {
	ps := DefaultPresets()
	c, _ := NewCycler(ps)
	ps[0].Name = "mutated"
	if c.Current().Name == "mutated" {
		t.Error("cycler should not alias the caller's slice")
	}
}
