package engine

import (
	"fmt"
	"strings"
)

// State is the pipeline phase the engine is in.
type State int

const (
	Idle State = iota
	Reconciling
	Indexing
	ResolvingVisibility
	LayingOut
	Merging
)

var stateNames = [...]string{
	Idle:                "idle",
	Reconciling:         "reconciling",
	Indexing:            "indexing",
	ResolvingVisibility: "resolving-visibility",
	LayingOut:           "laying-out",
	Merging:             "merging",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// LoadingStage is the ingestion progress reported by the loading side.
type LoadingStage int

const (
	StageNone LoadingStage = iota
	StageUploading
	StageProcessing
	StageBuilding
)

var stageNames = [...]string{
	StageNone:       "none",
	StageUploading:  "uploading",
	StageProcessing: "processing",
	StageBuilding:   "building",
}

func (s LoadingStage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("LoadingStage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseLoadingStage parses "none", "uploading", "processing" or "building".
// The empty string means none.
func ParseLoadingStage(s string) (LoadingStage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StageNone, nil
	}
	for i, name := range stageNames {
		if s == name {
			return LoadingStage(i), nil
		}
	}
	return StageNone, fmt.Errorf("invalid loading stage: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s LoadingStage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LoadingStage) UnmarshalText(b []byte) error {
	v, err := ParseLoadingStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
