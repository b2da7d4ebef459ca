package flamegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_AddAndGetChild(t *testing.T) {
	root := NewNode("root", 0)
	child := NewNode("a", 5)

	idx := root.AddChild(child)
	assert.Equal(t, 0, idx)
	assert.Same(t, child, root.GetChild("a"))
	assert.Nil(t, root.GetChild("missing"))
}

func TestNode_AddChild_Dedup(t *testing.T) {
	root := NewNode("root", 0)
	first := root.FindOrCreateChild("a")
	second := root.FindOrCreateChild("a")

	assert.Same(t, first, second)
	assert.Len(t, root.Children, 1)
}

func TestNode_Cleanup_PrunesBelowThreshold(t *testing.T) {
	root := NewNode("root", 100)
	big := NewNode("big", 90)
	small := NewNode("small", 5)
	root.AddChild(big)
	root.AddChild(small)

	root.Cleanup(10)

	assert.Len(t, root.Children, 1)
	assert.Equal(t, "big", root.Children[0].Name)
	assert.Nil(t, root.childrenMap)
}

func TestNode_Clone(t *testing.T) {
	root := NewNode("root", 10)
	root.AddChild(NewNode("a", 5))

	clone := root.Clone()
	clone.Children[0].Value = 999

	assert.Equal(t, int64(5), root.Children[0].Value)
	assert.Equal(t, int64(999), clone.Children[0].Value)
}

func TestFlameGraph_Cleanup(t *testing.T) {
	fg := NewFlameGraph()
	fg.Root.Value = 100
	fg.TotalSamples = 100
	fg.Root.AddChild(NewNode("hot", 90))
	fg.Root.AddChild(NewNode("cold", 1))

	fg.Cleanup(5.0)

	assert.Len(t, fg.Root.Children, 1)
	assert.Equal(t, "hot", fg.Root.Children[0].Name)
}

func TestFlameGraph_CalculateMaxDepth(t *testing.T) {
	fg := NewFlameGraph()
	a := fg.Root.FindOrCreateChild("a")
	b := a.FindOrCreateChild("b")
	b.FindOrCreateChild("c")

	assert.Equal(t, 3, fg.CalculateMaxDepth())
}

func TestNodeBuilder_AddStack(t *testing.T) {
	b := NewNodeBuilder("root")
	b.AddStack([]string{"main", "worker", "step"}, 3)
	b.AddStack([]string{"main", "worker", "other"}, 2)

	root := b.Build()
	assert.Equal(t, int64(5), root.Value)

	worker := root.GetChild("main").GetChild("worker")
	assert.Equal(t, int64(5), worker.Value)
	assert.Len(t, worker.Children, 2)
}

func TestMergeNodes(t *testing.T) {
	a := NewNode("a", 3)
	b := NewNode("b", 4)

	merged := MergeNodes([]*Node{a, b})
	assert.Equal(t, "all", merged.Name)
	assert.Equal(t, int64(7), merged.Value)
	assert.Len(t, merged.Children, 2)
}

func TestMergeNodes_Single(t *testing.T) {
	a := NewNode("a", 3)
	assert.Same(t, a, MergeNodes([]*Node{a}))
}

func TestMergeNodes_Empty(t *testing.T) {
	assert.Nil(t, MergeNodes(nil))
}
