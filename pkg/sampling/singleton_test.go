package sampling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stackfold/stackfold/pkg/utils"
)

func TestStartGlobalTimerRejectsSecondTimer(t *testing.T) {
	defer StopGlobalTimer()

	clock := utils.NewRealClock()
	mgr := NewContextManager(10, 10, clock)
	t1 := NewTimer(mgr, 5*time.Millisecond, clock, &utils.NullLogger{})
	t2 := NewTimer(mgr, 5*time.Millisecond, clock, &utils.NullLogger{})

	assert.True(t, StartGlobalTimer(t1))
	assert.False(t, StartGlobalTimer(t2))
	assert.Same(t, t1, GlobalTimer())
}

func TestStopGlobalTimerClearsCell(t *testing.T) {
	clock := utils.NewRealClock()
	mgr := NewContextManager(10, 10, clock)
	timer := NewTimer(mgr, 5*time.Millisecond, clock, &utils.NullLogger{})

	StartGlobalTimer(timer)
	StopGlobalTimer()

	assert.Nil(t, GlobalTimer())
	assert.False(t, timer.Running())
}
