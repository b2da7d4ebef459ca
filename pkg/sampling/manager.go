package sampling

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stackfold/stackfold/pkg/frame"
	"github.com/stackfold/stackfold/pkg/utils"
)

// DefaultCapacity bounds how many contexts may be live at once when the
// caller does not configure one explicitly.
const DefaultCapacity = 64

// ContextManager is the mutex-guarded, insertion-ordered registry of live
// contexts. Once full, new registrations are accepted but marked dropped so
// callers never see Begin fail outright; the registry just stops doing real
// work for them until room frees up.
type ContextManager struct {
	mu       sync.Mutex
	capacity int
	order    []uuid.UUID
	byIdent  map[uuid.UUID]*Context
	clock    utils.Clock
	delta    uint32
}

// NewContextManager creates a manager bounded at capacity (DefaultCapacity
// if <= 0), sampling every context at delta weight per tick using clock for
// timing.
func NewContextManager(capacity int, delta uint32, clock utils.Clock) *ContextManager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ContextManager{
		capacity: capacity,
		byIdent:  make(map[uuid.UUID]*Context),
		clock:    clock,
		delta:    delta,
	}
}

// Begin registers a new context named name, tracking source. If the
// registry is already at capacity, the returned context is a dropped
// placeholder that records nothing but can still be ended safely.
func (m *ContextManager) Begin(name string, source StackSource) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := len(m.order) >= m.capacity
	ctx := NewContext(name, m.delta, source, m.clock, dropped)

	if !dropped {
		m.order = append(m.order, ctx.Ident())
		m.byIdent[ctx.Ident()] = ctx
	}
	return ctx
}

// Remove retires ctx, removing it from the registry so the timer no longer
// ticks it. It is idempotent: ending an already-removed or dropped context
// is a no-op.
func (m *ContextManager) Remove(ctx *Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byIdent[ctx.Ident()]; !ok {
		return
	}
	delete(m.byIdent, ctx.Ident())
	for i, id := range m.order {
		if id == ctx.Ident() {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the currently live contexts in registration order. The
// slice is a copy; callers may iterate it without holding the manager's
// lock, though individual Contexts are still single-writer.
func (m *ContextManager) Snapshot() []*Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Context, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byIdent[id])
	}
	return out
}

// Len reports how many contexts are currently registered (excludes dropped
// placeholders, which were never added).
func (m *ContextManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Tick drives one round of sampling across every live context, removing any
// whose tracked thread has gone away.
func (m *ContextManager) Tick() {
	for _, ctx := range m.Snapshot() {
		if alive := ctx.Tick(); !alive {
			m.Remove(ctx)
		}
	}
}

// ExtractCurrent captures the calling goroutine's own stack through
// extractor, for Sampler.Wrap's direct-attribution path.
func ExtractCurrent(extractor frame.Extractor, skip int) (frame.Stack, error) {
	raw := frame.Capture(skip + 1)
	return extractor.Extract(raw)
}
