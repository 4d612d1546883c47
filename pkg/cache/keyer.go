package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// LayoutKeyOpts are the inputs besides the node list that determine a
// layout snapshot.
//
// StoredIndex is the preset the document's stored positions were laid out
// under; they only survive when it equals PresetIndex.
type LayoutKeyOpts struct {
	Preset         string   `json:"preset"`
	PresetIndex    int      `json:"preset_index"`
	StoredIndex    int      `json:"stored_index"`
	Direction      string   `json:"direction"`
	SiblingSpacing float64  `json:"sibling_spacing"`
	LevelSpacing   float64  `json:"level_spacing"`
	NodeSize       float64  `json:"node_size"`
	Collapsed      []string `json:"collapsed"`
}

// RenderKeyOpts are the inputs that determine a rendered artifact.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey keys a snapshot by the hash of its node data.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string

	// RenderKey keys an artifact by the hash of its snapshot.
	RenderKey(snapshotHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>". Collapsed IDs are order-insensitive.
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	opts.Collapsed = slices.Sorted(slices.Values(opts.Collapsed))
	return hashKey("layout", dataHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(snapshotHash string, opts RenderKeyOpts) string {
	return hashKey("render", snapshotHash, opts)
}

func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Map keys are sorted by
// encoding/json, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Hash(data), nil
}
