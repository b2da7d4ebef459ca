// Package parser defines the interfaces for parsing folded-stack profiling
// data recovered from a repository backend.
package parser

import (
	"context"
	"io"

	"github.com/stackfold/stackfold/pkg/model"
)

// Parser parses folded-stack profiling data.
type Parser interface {
	// Parse parses profiling data from the reader.
	Parse(ctx context.Context, reader io.Reader) (*model.ParseResult, error)

	// Name returns the name of this parser.
	Name() string
}

// Factory creates a new Parser instance.
type Factory func() Parser

// Registry holds registered parsers by format name.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a new parser Registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register registers a parser under the given format name.
func (r *Registry) Register(format string, p Parser) {
	r.parsers[format] = p
}

// Get returns a parser for the given format.
func (r *Registry) Get(format string) (Parser, bool) {
	p, ok := r.parsers[format]
	return p, ok
}
