package webui

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stackfold/stackfold/pkg/sampling"
)

var requestTracer = otel.Tracer("github.com/stackfold/stackfold/internal/dashboard")

// Trace wraps next so every request carries a span describing the route it
// hit, independent of whether self-profiling is also enabled.
func Trace(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := requestTracer.Start(r.Context(), name+" "+r.URL.Path,
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			))
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Instrument wraps next so every request is profiled under name via
// sampler.Wrap, the Go analogue of the reference Flask middleware's
// begin-before/end-after-the-view pattern (pysample/contrib/flask.py).
func Instrument(sampler *sampling.Sampler, name string, next http.Handler) http.Handler {
	next = Trace(name, next)
	if sampler == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sampler.Wrap(name+" "+r.URL.Path, func() {
			next.ServeHTTP(w, r)
		})
	})
}
