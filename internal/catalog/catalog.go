// Package catalog holds the process-wide registry of named queries: the
// repository's catalogue of arrest analyses, each a parameter-free
// queryspec.Spec invocable by name. The registry is populated during
// package init and read-only afterwards, so lookups need no locking.
package catalog

import (
	"fmt"
	"sort"

	"github.com/blotterlabs/blotter/internal/engine"
	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
)

var named = map[string]queryspec.Spec{}

// Register adds a named query to the registry. It panics on a duplicate
// name; registration happens only from init functions, so a collision is
// a programming error, not a runtime condition.
func Register(spec queryspec.Spec) {
	if spec.Name == "" {
		panic("catalog: spec has no name")
	}
	if _, exists := named[spec.Name]; exists {
		panic(fmt.Sprintf("catalog: duplicate query name %q", spec.Name))
	}
	named[spec.Name] = spec
}

// Get returns the named spec.
func Get(name string) (queryspec.Spec, bool) {
	spec, ok := named[name]
	return spec, ok
}

// Names returns all registered query names, sorted.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes a registered query against a dataset.
func Run(ds *table.Dataset, name string) (*table.ResultTable, error) {
	spec, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("unknown named query %q", name)
	}
	return engine.Run(ds, spec)
}
