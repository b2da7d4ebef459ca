// Package collapsed parses the folded-stack text format emitted by
// pkg/sampling.Context.FlameOutput: one stack per line, frames separated by
// ';', terminated by a space and a weight.
//
//	main.worker (main.go:42);main.step (main.go:50) 3
package collapsed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stackfold/stackfold/pkg/model"
)

// Parser implements the collapsed/folded format parser.
type Parser struct {
	// StrictMode fails the whole parse on the first malformed line instead
	// of skipping it.
	StrictMode bool
}

// NewParser creates a new collapsed format parser.
func NewParser() *Parser {
	return &Parser{}
}

// Name returns the parser's registered name.
func (p *Parser) Name() string {
	return "collapsed"
}

// Parse reads folded-stack lines and returns the recovered samples.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (*model.ParseResult, error) {
	result := &model.ParseResult{Samples: make([]*model.Sample, 0)}

	scanner := bufio.NewScanner(reader)
	lineNum := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sample, err := parseLine(line)
		if err != nil {
			if p.StrictMode {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			continue
		}

		result.TotalSamples += sample.Value
		result.Samples = append(result.Samples, sample)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return result, nil
}

// parseLine parses a single "stack weight" line.
func parseLine(line string) (*model.Sample, error) {
	lastSpace := strings.LastIndex(line, " ")
	if lastSpace == -1 {
		return nil, ErrInvalidFormat
	}

	stack := line[:lastSpace]
	weightStr := strings.TrimSpace(line[lastSpace+1:])

	weight, err := strconv.ParseInt(weightStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid weight: %w", err)
	}

	frames := strings.Split(stack, ";")
	callStack := make([]string, 0, len(frames))
	for _, f := range frames {
		if f == "" {
			continue
		}
		callStack = append(callStack, f)
	}
	if len(callStack) == 0 {
		return nil, ErrInvalidFormat
	}

	return &model.Sample{CallStack: callStack, Value: weight}, nil
}

// ErrInvalidFormat is returned for a line that isn't "stack weight".
var ErrInvalidFormat = fmt.Errorf("invalid collapsed format")
