// Package layout computes node positions for a mind map forest.
//
// # Algorithm
//
// [Compute] implements a centered tidy tree in two passes:
//
//  1. Post-order: every subtree gets an extent along the cross axis (the axis
//     orthogonal to growth). A leaf spans the node size; an inner node spans
//     the sum of its children's extents plus SiblingSpacing between them.
//  2. Pre-order: each node sits at the centre of its subtree's extent, and
//     its children are packed left to right inside it. The along-axis
//     coordinate is depth * LevelSpacing.
//
// Roots are laid out side by side with the same spacing rule, and the whole
// forest is centred on the cross-axis origin. Siblings keep their order from
// the input node list. The result is deterministic and linear in node count.
//
// # Presets
//
// A [Preset] combines a growth [Direction] with the two spacing constants.
// TopDown grows along +y, BottomUp along -y, LeftRight along +x and
// RightLeft along -x. A [Cycler] steps through a fixed preset list and
// remembers that the preset changed so the next merge can be a full reset.
package layout
