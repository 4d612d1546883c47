package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/mindtower/pkg/engine"
	"github.com/matzehuels/mindtower/pkg/tree"
)

func snapshot(t *testing.T, collapse ...string) engine.Snapshot {
	t.Helper()
	e, err := engine.New(engine.Options{})
	if err != nil {
		t.Fatal(err)
	}
	page := 4
	e.ReplaceData([]tree.Node{
		{ID: "A", Title: "Topic"},
		{ID: "B", Title: "Branch", ParentID: "A", Description: "why", PageNumber: &page},
		{ID: "C", Title: "Other", ParentID: "A"},
		{ID: "D", Title: "Leaf", ParentID: "B"},
	})
	for _, id := range collapse {
		if err := e.ToggleCollapse(id); err != nil {
			t.Fatal(err)
		}
	}
	return e.Snapshot()
}

func TestToDOTPinsPositions(t *testing.T) {
	out := ToDOT(snapshot(t), Options{})
	for _, want := range []string{
		"layout=neato;",
		`"A" [label="Topic −", pos="0,0!"]`,
		`"D" [label="Leaf", pos="-110,-320!"]`,
		`"A" -> "B" [id="e-A-B"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q:\n%s", want, out)
		}
	}
}

func TestToDOTSkipsHidden(t *testing.T) {
	out := ToDOT(snapshot(t, "B"), Options{})
	if strings.Contains(out, `"D"`) {
		t.Errorf("hidden node D rendered:\n%s", out)
	}
	if !strings.Contains(out, `label="Branch +"`) || !strings.Contains(out, "fillcolor=lightgrey") {
		t.Errorf("collapsed marker missing:\n%s", out)
	}
}

func TestToDOTDetailed(t *testing.T) {
	out := ToDOT(snapshot(t), Options{Detailed: true})
	if !strings.Contains(out, `label="Branch −\nwhy\npage 4"`) {
		t.Errorf("detailed label missing:\n%s", out)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("got %s", got)
	}
	if plain := []byte("<svg></svg>"); string(normalizeViewBox(plain)) != "<svg></svg>" {
		t.Error("input without viewBox should pass through")
	}
}
