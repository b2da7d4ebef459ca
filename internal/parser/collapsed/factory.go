package collapsed

import (
	"github.com/stackfold/stackfold/internal/parser"
)

// RegisterWithRegistry registers the collapsed parser under both its
// canonical name and the "folded" alias.
func RegisterWithRegistry(registry *parser.Registry) {
	p := NewParser()
	registry.Register("collapsed", p)
	registry.Register("folded", p)
}
