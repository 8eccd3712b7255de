package template

import (
	"sort"
	"time"
)

// Evaluator renders a token value for the given evaluation time.
type Evaluator func(now time.Time, format string) string

// Registry maps token names to evaluators. It is immutable after creation
// and safe for concurrent use.
type Registry struct {
	evaluators map[string]Evaluator
}

// NewRegistry creates a registry holding a copy of evaluators.
func NewRegistry(evaluators map[string]Evaluator) *Registry {
	copied := make(map[string]Evaluator, len(evaluators))
	for name, fn := range evaluators {
		copied[name] = fn
	}
	return &Registry{evaluators: copied}
}

// DefaultRegistry returns a registry with the Date and UtcDate tokens.
//
//	Date     local time rendered with the token format
//	UtcDate  UTC time rendered with the token format
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Evaluator{
		"Date": func(now time.Time, format string) string {
			return FormatTime(now.Local(), format)
		},
		"UtcDate": func(now time.Time, format string) string {
			return FormatTime(now.UTC(), format)
		},
	})
}

// Lookup returns the evaluator registered under name.
// Names are case-sensitive.
func (r *Registry) Lookup(name string) (Evaluator, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.evaluators[name]
	return fn, ok
}

// Names returns the registered token names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.evaluators))
	for name := range r.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
