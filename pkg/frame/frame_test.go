package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameLabel(t *testing.T) {
	f := Frame{Function: "main.worker", File: "main.go", Line: 42}
	assert.Equal(t, "main.worker (main.go:42)", f.Label())
}

func TestRuntimeExtractorSuppression(t *testing.T) {
	ex := NewRuntimeExtractor(0, "runtime.gopark")

	raw := []Frame{
		{Function: "main.main", File: "main.go", Line: 10},
		{Function: "runtime.gopark", File: "proc.go", Line: 1},
		{Function: "main.worker", File: "main.go", Line: 42},
	}

	out, err := ex.Extract(raw)
	assert.NoError(t, err)
	assert.Equal(t, Stack{raw[0], raw[2]}, out)
}

func TestRuntimeExtractorMaxDepth(t *testing.T) {
	ex := NewRuntimeExtractor(2)

	raw := []Frame{
		{Function: "a"}, {Function: "b"}, {Function: "c"},
	}

	out, err := ex.Extract(raw)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestRuntimeExtractorEmpty(t *testing.T) {
	ex := NewRuntimeExtractor(0)

	out, err := ex.Extract(nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}
