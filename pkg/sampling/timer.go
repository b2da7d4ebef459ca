package sampling

import (
	"sync"
	"time"

	"github.com/stackfold/stackfold/pkg/utils"
)

// MinInterval is the documented lower bound on sampling interval; any
// requested interval below it is clamped up rather than rejected.
const MinInterval = 5 * time.Millisecond

// ClampInterval enforces MinInterval, matching sample(interval=0) and
// sample(interval=4) both behaving as interval=5.
func ClampInterval(interval time.Duration) time.Duration {
	if interval < MinInterval {
		return MinInterval
	}
	return interval
}

// joinTimeout bounds how long Stop waits for the timer goroutine to notice
// it should exit before giving up and returning anyway.
const joinTimeout = 3 * time.Second

// Timer is the single background driver of sampling ticks across a
// ContextManager. Start is idempotent and returns false if this timer is
// already running; StartGlobalTimer is what keeps a second Timer from
// running process-wide.
type Timer struct {
	manager  *ContextManager
	interval time.Duration
	clock    utils.Clock
	log      utils.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewTimer creates a Timer that ticks manager every interval (clamped to
// MinInterval) using clock for timing.
func NewTimer(manager *ContextManager, interval time.Duration, clock utils.Clock, log utils.Logger) *Timer {
	if log == nil {
		log = utils.GetGlobalLogger()
	}
	return &Timer{
		manager:  manager,
		interval: ClampInterval(interval),
		clock:    clock,
		log:      log,
	}
}

// Start transitions the timer from stopped to running and launches its loop
// on its own goroutine. It is a no-op returning false if already running.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}

	t.running = true
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})

	go t.loop(t.stopCh, t.done)
	return true
}

// Stop cooperatively signals the timer loop to exit and waits up to a
// bounded timeout for it to do so. If the timeout elapses the goroutine is
// abandoned; it will exit on its own next iteration.
func (t *Timer) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	close(t.stopCh)
	done := t.done
	t.running = false
	t.mu.Unlock()

	select {
	case <-done:
	case <-time.After(joinTimeout):
		t.log.Warn("timer stop timed out waiting for loop to exit")
	}
}

// Running reports whether the timer is currently active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// loop is the timer's own goroutine body: sample every live context, then
// sleep for whatever remains of the interval. It never attempts to catch up
// missed ticks, and a panic from any single context's Tick is contained so
// the loop itself never dies mid-session.
func (t *Timer) loop(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		start := t.clock.Now()
		t.safeTick()
		elapsed := t.clock.Since(start)

		remaining := t.interval - elapsed
		if remaining < 0 {
			remaining = 0
		}

		select {
		case <-stopCh:
			return
		case <-t.clock.After(remaining):
		}
	}
}

// safeTick runs one round of ContextManager.Tick, converting any panic from
// a single context's capture into a logged failure rather than letting it
// terminate the timer goroutine.
func (t *Timer) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("recovered panic during sampling tick")
		}
	}()
	t.manager.Tick()
}
