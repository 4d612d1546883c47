package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"empty defaults to dot", "", []string{"dot"}, false},
		{"single format", "svg", []string{"svg"}, false},
		{"multiple formats", "dot,svg,json", []string{"dot", "svg", "json"}, false},
		{"spaces trimmed", " svg , dot ", []string{"svg", "dot"}, false},
		{"invalid format", "svg,pdf", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFormats(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	if got := parseList("a, b,,c "); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("parseList() = %v", got)
	}
	if got := parseList(""); got != nil {
		t.Errorf("parseList(\"\") = %v, want nil", got)
	}
}

func TestRenderPaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "single format explicit output",
			input:   "plan.json",
			output:  "out.svg",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "out.svg"},
		},
		{
			name:    "single format derived",
			input:   "maps/plan.json",
			formats: []string{"dot"},
			want:    map[string]string{"dot": "maps/plan.dot"},
		},
		{
			name:    "multiple formats share base",
			input:   "plan.json",
			output:  "build/plan",
			formats: []string{"dot", "svg", "json"},
			want: map[string]string{
				"dot":  "build/plan.dot",
				"svg":  "build/plan.svg",
				"json": "build/plan.snapshot.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderPaths(tt.input, tt.output, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("renderPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("a/b.json", "", ".layout.json"); got != "a/b.layout.json" {
		t.Errorf("outputPath derived = %q", got)
	}
	if got := outputPath("a/b.json", "x.json", ".layout.json"); got != "x.json" {
		t.Errorf("outputPath explicit = %q", got)
	}
}
