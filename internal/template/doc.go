// Package template expands {Name:Format} tokens in archive paths.
//
// A token names an evaluator in a Registry and carries a format passed to
// it verbatim. The default registry provides Date (local time) and UtcDate
// (UTC time):
//
//	e := template.NewExpander(template.DefaultRegistry(), template.WithSink(sink))
//	dir := e.Expand("/var/archive/{Date:yyyy}/{Date:MM}")
//	// "/var/archive/2026/10"
//
// Expansion is total: tokens with unknown names are left in place and
// reported to the sink as "unsupported token: <Name>".
//
// Paths are evaluated on every call, so a templated archive directory moves
// over time. IsTemplated tells callers whether a path is stable.
package template
