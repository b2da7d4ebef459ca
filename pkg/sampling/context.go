// Package sampling implements the lifecycle of a sampling session: named
// contexts tracking a single goroutine's stack over time, the registry that
// bounds how many contexts may be live at once, the façade user code calls
// to begin/end a session, and the background timer that drives the ticks.
package sampling

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stackfold/stackfold/pkg/frame"
	"github.com/stackfold/stackfold/pkg/trie"
	"github.com/stackfold/stackfold/pkg/utils"
)

// Context is one profiling session: a name, an opaque identity, the stack
// trie accumulating its samples, and the source the timer polls on every
// tick. It is not safe for concurrent use; only the timer goroutine and the
// goroutine that calls End touch it, and End always happens-after the timer
// has stopped touching it (enforced by ContextManager.Remove).
type Context struct {
	name    string
	ident   uuid.UUID
	delta   uint32
	clock   utils.Clock
	started time.Time

	source StackSource
	counter *trie.Counter
	span    trace.Span

	totalTicks uint64
	dropped    bool
}

// NewContext creates a Context named name, sampling source every tick for
// delta weight per hit. dropped marks a capacity-exceeded placeholder: it
// still satisfies the full lifecycle but Tick is a no-op, matching the
// registry's "degrade, don't fail the caller" behavior under pressure.
func NewContext(name string, delta uint32, source StackSource, clock utils.Clock, dropped bool) *Context {
	return &Context{
		name:    name,
		ident:   uuid.New(),
		delta:   delta,
		clock:   clock,
		started: clock.Now(),
		source:  source,
		counter: trie.NewCounter(delta),
		dropped: dropped,
	}
}

// Name returns the context's label.
func (c *Context) Name() string { return c.name }

// Ident returns the context's opaque 128-bit identity.
func (c *Context) Ident() uuid.UUID { return c.ident }

// Dropped reports whether this context is a capacity-exceeded placeholder
// that never actually records samples.
func (c *Context) Dropped() bool { return c.dropped }

// SetSpan attaches the span tracing this context's lifetime, started by
// Sampler.Begin and ended by Sampler.End.
func (c *Context) SetSpan(span trace.Span) { c.span = span }

// Span returns the span attached by SetSpan, or nil if none was set.
func (c *Context) Span() trace.Span { return c.span }

// Tick asks the source for a fresh snapshot and records it, unless the
// source reports the tracked thread is gone or this is a dropped
// placeholder. It returns false once the tracked thread has disappeared, a
// signal the manager uses to retire the context on its own.
func (c *Context) Tick() bool {
	if c.dropped {
		return true
	}

	stack, ok := c.source.Stack()
	if !ok {
		return false
	}

	c.counter.Record(stack)
	c.totalTicks++
	return true
}

// RecordOnce records a single already-extracted stack directly, bypassing
// the source. It is how Sampler.Wrap attributes its caller's own stack
// without waiting for the next timer tick.
func (c *Context) RecordOnce(stack frame.Stack) {
	if c.dropped || len(stack) == 0 {
		return
	}
	c.counter.Record(stack)
	c.totalTicks++
}

// TotalTicks returns how many times this context has recorded a sample.
func (c *Context) TotalTicks() uint64 { return c.totalTicks }

// Lifecycle returns how long the context has been open, as of now.
func (c *Context) Lifecycle() time.Duration { return c.clock.Since(c.started) }

// FlameOutput renders the accumulated trie in folded-stack form.
func (c *Context) FlameOutput() string { return c.counter.FlameOutput() }
