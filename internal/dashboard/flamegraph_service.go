// Package webui provides flame graph rendering services for the dashboard.
package webui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stackfold/stackfold/internal/flamegraph"
	"github.com/stackfold/stackfold/internal/parser/collapsed"
	"github.com/stackfold/stackfold/internal/repository"
)

// FlameGraphService loads stored profile records and renders them as flame
// graphs, caching the rendered tree per sample ID.
type FlameGraphService struct {
	repo  repository.Repository
	gen   *flamegraph.Generator
	cache sync.Map // sampleID -> *flamegraph.FlameGraph
}

// NewFlameGraphService creates a new FlameGraphService over repo.
func NewFlameGraphService(repo repository.Repository) *FlameGraphService {
	return &FlameGraphService{
		repo: repo,
		gen:  flamegraph.NewGenerator(nil),
	}
}

// GetFlameGraph returns the flame graph for a single stored record,
// parsing and caching it on first use.
func (s *FlameGraphService) GetFlameGraph(ctx context.Context, sampleID string) (*flamegraph.FlameGraph, error) {
	if cached, ok := s.cache.Load(sampleID); ok {
		return cached.(*flamegraph.FlameGraph), nil
	}

	rec, err := s.repo.Get(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	fg, err := s.renderStackInfo(ctx, rec.StackInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to render flame graph for %s: %w", sampleID, err)
	}

	s.cache.Store(sampleID, fg)
	return fg, nil
}

// GetAggregateFlameGraph merges every record for a context name into a
// single flame graph, without caching (records accumulate over time).
func (s *FlameGraphService) GetAggregateFlameGraph(ctx context.Context, name string, limit int) (*flamegraph.FlameGraph, error) {
	records, err := s.repo.ListByName(ctx, name, limit)
	if err != nil {
		return nil, err
	}

	var stacks strings.Builder
	for _, rec := range records {
		stacks.WriteString(rec.StackInfo)
	}

	return s.renderStackInfo(ctx, stacks.String())
}

func (s *FlameGraphService) renderStackInfo(ctx context.Context, stackInfo string) (*flamegraph.FlameGraph, error) {
	p := collapsed.NewParser()
	result, err := p.Parse(ctx, strings.NewReader(stackInfo))
	if err != nil {
		return nil, fmt.Errorf("failed to parse folded stacks: %w", err)
	}

	return s.gen.GenerateFromParseResult(ctx, result)
}

// InvalidateCache drops the cached flame graph for a sample ID.
func (s *FlameGraphService) InvalidateCache(sampleID string) {
	s.cache.Delete(sampleID)
}

// ClearCache drops every cached flame graph.
func (s *FlameGraphService) ClearCache() {
	s.cache = sync.Map{}
}
