// Package trie implements the stack-aggregation data structure at the heart
// of the sampling profiler: a radix tree keyed by interned frame labels,
// where each node's accumulated weight is its hit count along the path from
// the root.
//
// Nodes live in an arena owned by the Counter rather than being individually
// heap-allocated objects linked by pointers: a node refers to its children by
// plain integer index, and nodes keep no link to their parent. Depth-first
// serialization carries the current path on its own recursion instead.
package trie

import (
	"fmt"
	"strings"

	"github.com/stackfold/stackfold/pkg/frame"
	"github.com/stackfold/stackfold/pkg/intern"
)

const rootIndex = 0

type node struct {
	labelID    uint32
	weight     uint64
	children   []int // arena indices, in first-observation order
	childIndex map[uint32]int
}

// Counter is a single profiling session's stack trie plus the interned
// string table backing its frame labels. It is not safe for concurrent use;
// the contract (single-writer while live, single-reader after removal) is
// enforced by its caller, not by this type.
type Counter struct {
	delta   uint32
	strings *intern.Table
	arena   []node
}

// NewCounter creates an empty Counter whose leaves accumulate delta per tick.
func NewCounter(delta uint32) *Counter {
	return &Counter{
		delta:   delta,
		strings: intern.New(),
		arena:   []node{{childIndex: make(map[uint32]int)}},
	}
}

// Record walks stack root-to-leaf, creating trie nodes as needed, and adds
// delta to the terminal node's weight. Empty stacks are ignored.
func (c *Counter) Record(stack frame.Stack) {
	if len(stack) == 0 {
		return
	}

	cur := rootIndex
	for _, f := range stack {
		id := c.strings.Intern(f.Label())

		if idx, ok := c.arena[cur].childIndex[id]; ok {
			cur = idx
			continue
		}

		c.arena = append(c.arena, node{labelID: id, childIndex: make(map[uint32]int)})
		idx := len(c.arena) - 1
		c.arena[cur].children = append(c.arena[cur].children, idx)
		c.arena[cur].childIndex[id] = idx
		cur = idx
	}

	c.arena[cur].weight += uint64(c.delta)
}

// TotalWeight sums the weight of every node in the trie, exercised by tests
// asserting the Conservation invariant.
func (c *Counter) TotalWeight() uint64 {
	var total uint64
	for _, n := range c.arena {
		total += n.weight
	}
	return total
}

// FlameOutput performs a depth-first walk of the trie and renders it in
// folded-stack form: one line per node with positive weight, in the order
// children were first observed, terminated with "\n". A trie with no
// recorded samples renders as the empty string.
func (c *Counter) FlameOutput() string {
	if len(c.arena) <= 1 {
		return ""
	}

	var b strings.Builder
	path := make([]string, 0, 16)

	var walk func(idx int)
	walk = func(idx int) {
		n := &c.arena[idx]
		if idx != rootIndex {
			label, _ := c.strings.Lookup(n.labelID)
			path = append(path, label)
		}

		if n.weight > 0 {
			b.WriteString(strings.Join(path, ";"))
			b.WriteByte(' ')
			fmt.Fprintf(&b, "%d", n.weight)
			b.WriteByte('\n')
		}

		for _, childIdx := range n.children {
			walk(childIdx)
		}

		if idx != rootIndex {
			path = path[:len(path)-1]
		}
	}
	walk(rootIndex)

	return b.String()
}
