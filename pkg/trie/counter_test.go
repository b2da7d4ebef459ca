package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackfold/stackfold/pkg/frame"
)

func mkStack(pairs ...string) frame.Stack {
	s := make(frame.Stack, 0, len(pairs))
	for _, fn := range pairs {
		s = append(s, frame.Frame{Function: fn, File: "f.py", Line: uint32(len(s) + 1)})
	}
	return s
}

func TestEmptyCounterYieldsEmptyOutput(t *testing.T) {
	c := NewCounter(10)
	assert.Equal(t, "", c.FlameOutput())
}

func TestRecordEmptyStackIsNoop(t *testing.T) {
	c := NewCounter(10)
	c.Record(nil)
	assert.Equal(t, "", c.FlameOutput())
	assert.Equal(t, uint64(0), c.TotalWeight())
}

// S1: single stack sampled 3 times.
func TestScenarioS1SingleStack(t *testing.T) {
	c := NewCounter(10)
	stack := frame.Stack{
		{Function: "A", File: "f.py", Line: 1},
		{Function: "B", File: "f.py", Line: 2},
	}
	for i := 0; i < 3; i++ {
		c.Record(stack)
	}

	assert.Equal(t, "A (f.py:1);B (f.py:2) 30\n", c.FlameOutput())
}

// S2: diverging children preserve first-observation order.
func TestScenarioS2DivergingChildrenOrder(t *testing.T) {
	c := NewCounter(10)
	ab := frame.Stack{{Function: "A", File: "f.py", Line: 1}, {Function: "B", File: "f.py", Line: 2}}
	ac := frame.Stack{{Function: "A", File: "f.py", Line: 1}, {Function: "C", File: "f.py", Line: 3}}

	for i := 0; i < 3; i++ {
		c.Record(ab)
	}
	for i := 0; i < 2; i++ {
		c.Record(ac)
	}

	expected := "A (f.py:1);B (f.py:2) 30\n" + "A (f.py:1);C (f.py:3) 20\n"
	assert.Equal(t, expected, c.FlameOutput())
}

// S3: a node can carry both children and its own positive weight.
func TestScenarioS3NodeWithChildrenAndWeight(t *testing.T) {
	c := NewCounter(1)
	a := frame.Stack{{Function: "A", File: "f.py", Line: 1}}
	ab := frame.Stack{{Function: "A", File: "f.py", Line: 1}, {Function: "B", File: "f.py", Line: 2}}

	c.Record(a)
	c.Record(ab)
	c.Record(ab)

	expected := "A (f.py:1) 1\n" + "A (f.py:1);B (f.py:2) 2\n"
	assert.Equal(t, expected, c.FlameOutput())
}

func TestConservation(t *testing.T) {
	c := NewCounter(7)
	stacks := []frame.Stack{
		mkStack("A", "B"),
		mkStack("A", "C"),
		mkStack("A"),
	}

	n := 0
	for i := 0; i < 5; i++ {
		for _, s := range stacks {
			c.Record(s)
			n++
		}
	}

	assert.Equal(t, uint64(n)*7, c.TotalWeight())
}

func TestPrefixSharing(t *testing.T) {
	c := NewCounter(1)
	c.Record(mkStack("A", "B", "C"))
	c.Record(mkStack("A", "B", "D"))

	out := c.FlameOutput()
	assert.Contains(t, out, "A (f.py:1);B (f.py:2);C (f.py:3) 1\n")
	assert.Contains(t, out, "A (f.py:1);B (f.py:2);D (f.py:3) 1\n")
}

func TestDeterminism(t *testing.T) {
	build := func() string {
		c := NewCounter(5)
		c.Record(mkStack("A", "B"))
		c.Record(mkStack("A", "C"))
		c.Record(mkStack("A", "B"))
		return c.FlameOutput()
	}

	assert.Equal(t, build(), build())
}
