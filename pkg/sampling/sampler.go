package sampling

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stackfold/stackfold/pkg/errors"
	"github.com/stackfold/stackfold/pkg/frame"
	"github.com/stackfold/stackfold/pkg/repository"
	"github.com/stackfold/stackfold/pkg/utils"
)

var tracer = otel.Tracer("github.com/stackfold/stackfold/pkg/sampling")

// Sampler is the façade application code interacts with: begin a named
// session, optionally wrap a function so its own call stack is attributed
// immediately rather than waiting on the next timer tick, and end the
// session to flush its accumulated trie to a repository.
type Sampler struct {
	manager         *ContextManager
	extractor       frame.Extractor
	repo            repository.Repository
	log             utils.Logger
	outputThreshold time.Duration
}

// NewSampler creates a Sampler backed by manager, using extractor to build
// frames for Wrap's direct-attribution path and repo to persist finished
// sessions. Contexts whose lifecycle falls under outputThreshold when End is
// called are discarded without ever reaching the repository.
func NewSampler(manager *ContextManager, extractor frame.Extractor, repo repository.Repository, outputThreshold time.Duration, log utils.Logger) *Sampler {
	if log == nil {
		log = utils.GetGlobalLogger()
	}
	return &Sampler{manager: manager, extractor: extractor, repo: repo, outputThreshold: outputThreshold, log: log}
}

// Begin opens a new named session tracking the calling goroutine and
// returns the handle End needs to close it.
func (s *Sampler) Begin(name string) *Context {
	id := CurrentGoroutineID()
	source := NewGoroutineSource(id, s.extractor)
	ctx := s.manager.Begin(name, source)

	_, span := tracer.Start(context.Background(), "sampler.begin",
		trace.WithAttributes(
			attribute.String("sampling.name", name),
			attribute.String("sampling.ident", ctx.Ident().String()),
			attribute.Bool("sampling.dropped", ctx.Dropped()),
		))
	ctx.SetSpan(span)

	s.log.WithField("name", name).WithField("ident", ctx.Ident().String()).Debug("sampling context opened")
	return ctx
}

// End retires ctx and, if it recorded anything, persists its folded-stack
// output through the sampler's repository. Errors are logged, not
// returned: ending a profiling session must never be allowed to fail the
// caller's own workflow.
func (s *Sampler) End(ctx *Context) {
	if span := ctx.Span(); span != nil {
		defer span.End()
	}

	s.manager.Remove(ctx)

	lifecycle := ctx.Lifecycle()
	if lifecycle < s.outputThreshold {
		return
	}

	output := ctx.FlameOutput()
	if output == "" {
		return
	}

	rec := &repository.Record{
		Name:        ctx.Name(),
		Ident:       ctx.Ident(),
		FlameOutput: output,
		LifecycleMS: lifecycle.Milliseconds(),
	}

	if err := s.repo.Store(rec); err != nil {
		storeErr := errors.Wrap(errors.CodeRepositoryStore, "failed to store sampling record", err)
		s.log.WithField("name", ctx.Name()).Error(storeErr.Error())
		if span := ctx.Span(); span != nil {
			span.RecordError(storeErr)
		}
	}
}

// Wrap runs fn under a named sampling session, attributing the caller's own
// stack at entry (so short-lived calls below the timer's interval still show
// up) before handing off to the timer for any further ticks, then always ends
// the session through a deferred End — including when fn panics, in which
// case the panic keeps propagating once End has run.
func (s *Sampler) Wrap(name string, fn func()) {
	ctx := s.Begin(name)
	defer s.End(ctx)

	if stack, err := ExtractCurrent(s.extractor, 1); err == nil {
		ctx.RecordOnce(stack)
	}

	fn()
}
