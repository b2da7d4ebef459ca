package flamegraph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stackfold/stackfold/pkg/compression"
)

// JSONWriter writes flame graph data as JSON.
type JSONWriter struct {
	Indent string
}

// NewJSONWriter creates a compact JSON writer.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: ""}
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: "  "}
}

// Write writes the flame graph as JSON to the writer.
func (w *JSONWriter) Write(fg *FlameGraph, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	return encoder.Encode(fg.Root)
}

// WriteToFile writes the flame graph as JSON to a file.
func (w *JSONWriter) WriteToFile(fg *FlameGraph, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return w.Write(fg, file)
}

// CompressedWriter writes flame graph JSON through a compression.Compressor,
// used for archived or over-the-wire flame graph payloads.
type CompressedWriter struct {
	Compressor compression.Compressor
}

// NewCompressedWriter wraps the default compressor (zstd).
func NewCompressedWriter() *CompressedWriter {
	return &CompressedWriter{Compressor: compression.Default()}
}

// Write compresses the flame graph's JSON encoding and writes it out.
func (w *CompressedWriter) Write(fg *FlameGraph, writer io.Writer) error {
	data, err := json.Marshal(fg.Root)
	if err != nil {
		return fmt.Errorf("failed to marshal flame graph: %w", err)
	}

	compressed, err := w.Compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress flame graph: %w", err)
	}

	_, err = writer.Write(compressed)
	return err
}

// WriteToFile compresses and writes the flame graph to a file.
func (w *CompressedWriter) WriteToFile(fg *FlameGraph, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return w.Write(fg, file)
}

// FoldedWriter writes flame graph data in collapsed/folded format,
// compatible with flamegraph.pl.
type FoldedWriter struct{}

// NewFoldedWriter creates a new folded format writer.
func NewFoldedWriter() *FoldedWriter {
	return &FoldedWriter{}
}

// Write writes the flame graph in folded format: stack1;stack2 count.
func (w *FoldedWriter) Write(fg *FlameGraph, writer io.Writer) error {
	return w.writeNode(fg.Root, "", writer)
}

func (w *FoldedWriter) writeNode(node *Node, prefix string, writer io.Writer) error {
	stack := prefix
	if node.Name != "root" {
		if stack == "" {
			stack = node.Name
		} else {
			stack = stack + ";" + node.Name
		}
	}

	if len(node.Children) == 0 && stack != "" {
		_, err := fmt.Fprintf(writer, "%s %d\n", stack, node.Value)
		return err
	}

	for _, child := range node.Children {
		if err := w.writeNode(child, stack, writer); err != nil {
			return err
		}
	}

	return nil
}

// WriteToFile writes the flame graph in folded format to a file.
func (w *FoldedWriter) WriteToFile(fg *FlameGraph, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return w.Write(fg, file)
}
