package layout_test

import (
	"fmt"

	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/tree"
)

func ExampleCompute() {
	nodes := []tree.Node{
		{ID: "topic"},
		{ID: "left", ParentID: "topic"},
		{ID: "right", ParentID: "topic"},
	}
	preset := layout.DefaultPresets()[0]
	pos := layout.Compute(tree.Build(nodes), nodes, preset, layout.DefaultNodeSize)

	for _, n := range nodes {
		fmt.Println(n.ID, pos[n.ID])
	}
	// Output:
	// topic (0.0, 0.0)
	// left (-110.0, 160.0)
	// right (110.0, 160.0)
}

func ExampleCycler() {
	c, _ := layout.NewCycler(layout.DefaultPresets())
	for i := 0; i < c.Len(); i++ {
		fmt.Println(c.Index(), c.Current().Name, c.Current().Direction)
		c.Cycle()
	}
	fmt.Println("back to", c.Current().Name)
	// Output:
	// 0 top-down TB
	// 1 left-right LR
	// 2 bottom-up BT
	// 3 right-left RL
	// back to top-down
}
