package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackfold/stackfold/pkg/frame"
)

func TestCurrentGoroutineIDIsPositive(t *testing.T) {
	id := CurrentGoroutineID()
	assert.Greater(t, id, uint64(0))
}

func TestGoroutineSourceCapturesLiveGoroutine(t *testing.T) {
	done := make(chan struct{})
	idCh := make(chan uint64, 1)

	go func() {
		idCh <- CurrentGoroutineID()
		<-done
	}()

	id := <-idCh
	src := NewGoroutineSource(id, frame.NewRuntimeExtractor(0))

	stack, ok := src.Stack()
	require.True(t, ok)
	assert.NotEmpty(t, stack)

	close(done)
}

func TestGoroutineSourceReportsGoneAfterExit(t *testing.T) {
	done := make(chan uint64, 1)
	go func() {
		done <- CurrentGoroutineID()
	}()
	id := <-done

	// Give the goroutine a chance to actually exit before checking.
	exited := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			if _, ok := captureGoroutineFrames(id); !ok {
				close(exited)
				return
			}
		}
		close(exited)
	}()
	<-exited

	src := NewGoroutineSource(id, frame.NewRuntimeExtractor(0))
	_, ok := src.Stack()
	assert.False(t, ok)
}

func TestParseGoroutineBlockOrdersRootFirst(t *testing.T) {
	block := []byte("goroutine 7 [running]:\n" +
		"main.inner()\n" +
		"\t/app/main.go:20 +0x10\n" +
		"main.outer()\n" +
		"\t/app/main.go:10 +0x20\n")

	frames := parseGoroutineBlock(block)
	require.Len(t, frames, 2)
	assert.Equal(t, "main.outer", frames[0].Function)
	assert.Equal(t, "main.inner", frames[1].Function)
	assert.EqualValues(t, 10, frames[0].Line)
	assert.EqualValues(t, 20, frames[1].Line)
}
