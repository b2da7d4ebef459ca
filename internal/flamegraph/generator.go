package flamegraph

import (
	"context"
	"io"

	"github.com/stackfold/stackfold/pkg/model"
)

// GeneratorOptions configures flame graph generation.
type GeneratorOptions struct {
	// MinPercent prunes nodes whose share of total samples falls below it.
	MinPercent float64
}

// DefaultGeneratorOptions returns the generator's default options.
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{MinPercent: 0.1}
}

// Generator builds a FlameGraph from parsed samples.
type Generator struct {
	opts *GeneratorOptions
}

// NewGenerator creates a new Generator.
func NewGenerator(opts *GeneratorOptions) *Generator {
	if opts == nil {
		opts = DefaultGeneratorOptions()
	}
	return &Generator{opts: opts}
}

// Generate builds a flame graph from the given samples.
func (g *Generator) Generate(ctx context.Context, samples []*model.Sample) (*FlameGraph, error) {
	fg := NewFlameGraph()

	for _, sample := range samples {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		g.appendStack(fg, sample)
	}

	fg.TotalSamples = fg.Root.Value
	sortByValueDesc(fg.Root.Children)
	fg.Cleanup(g.opts.MinPercent)
	fg.CalculateMaxDepth()

	return fg, nil
}

// GenerateFromParseResult is a convenience wrapper around Generate.
func (g *Generator) GenerateFromParseResult(ctx context.Context, result *model.ParseResult) (*FlameGraph, error) {
	return g.Generate(ctx, result.Samples)
}

func (g *Generator) appendStack(fg *FlameGraph, sample *model.Sample) {
	if len(sample.CallStack) == 0 {
		return
	}

	node := fg.Root
	node.Value += sample.Value

	for _, frame := range sample.CallStack {
		child := node.GetChild(frame)
		if child == nil {
			child = NewNode(frame, 0)
			node.AddChild(child)
		}
		child.Value += sample.Value
		node = child
	}

	node.Self += sample.Value
}

// Writer defines the interface for writing flame graph output.
type Writer interface {
	Write(fg *FlameGraph, w io.Writer) error
}
