package template

import (
	"strings"
	"time"

	"github.com/jittakal/logarchive/pkg/archive"
)

// MetricsCollector defines metrics operations for token expansion.
type MetricsCollector interface {
	IncUnsupportedTokens(name string)
}

// Token is one {Name:Format} occurrence. Start and End are byte offsets
// into the scanned string, End exclusive.
type Token struct {
	Name   string
	Format string
	Start  int
	End    int
}

// Len returns the length of the token span in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Expander expands {Name:Format} tokens against a registry.
type Expander struct {
	registry *Registry
	sink     archive.Sink
	metrics  MetricsCollector
	now      func() time.Time
}

// Option configures an Expander.
type Option func(*Expander)

// WithSink sets the diagnostic sink for unsupported tokens.
func WithSink(sink archive.Sink) Option {
	return func(e *Expander) {
		e.sink = sink
	}
}

// WithClock sets the time source. The clock is read once per token.
func WithClock(now func() time.Time) Option {
	return func(e *Expander) {
		e.now = now
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics MetricsCollector) Option {
	return func(e *Expander) {
		e.metrics = metrics
	}
}

// NewExpander creates an expander. A nil registry uses DefaultRegistry.
func NewExpander(registry *Registry, opts ...Option) *Expander {
	if registry == nil {
		registry = DefaultRegistry()
	}
	e := &Expander{
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand replaces every registered token in s with its evaluated value.
//
// Replacement text is written to a fresh buffer and never re-scanned, so a
// value that happens to contain "{X:y}" stays literal. Tokens with unknown
// names are reported to the sink and copied through unchanged.
func (e *Expander) Expand(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	offset := 0
	for {
		token, ok := nextToken(s, offset)
		if !ok {
			break
		}

		b.WriteString(s[offset:token.Start])

		if fn, found := e.registry.Lookup(token.Name); found {
			b.WriteString(fn(e.now(), token.Format))
		} else {
			e.unsupported(token.Name)
			b.WriteString(s[token.Start:token.End])
		}

		offset = token.End
	}
	b.WriteString(s[offset:])

	return b.String()
}

func (e *Expander) unsupported(name string) {
	if e.sink != nil {
		e.sink.Printf("unsupported token: %s", name)
	}
	if e.metrics != nil {
		e.metrics.IncUnsupportedTokens(name)
	}
}

// Unsupported returns the names of tokens in s that the registry does not
// know, in order of appearance. It does not report to the sink.
func (e *Expander) Unsupported(s string) []string {
	var names []string
	for _, token := range Tokens(s) {
		if _, ok := e.registry.Lookup(token.Name); !ok {
			names = append(names, token.Name)
		}
	}
	return names
}

// IsTemplated reports whether s contains at least one token, whether or not
// its name is registered.
func IsTemplated(s string) bool {
	_, ok := nextToken(s, 0)
	return ok
}

// Tokens returns every token in s, left to right.
func Tokens(s string) []Token {
	var tokens []Token
	offset := 0
	for {
		token, ok := nextToken(s, offset)
		if !ok {
			return tokens
		}
		tokens = append(tokens, token)
		offset = token.End
	}
}

// nextToken finds the first token starting at or after offset.
// Grammar: "{" letters ":" one-or-more non-"}" "}".
func nextToken(s string, offset int) (Token, bool) {
	for start := offset; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		if token, ok := matchToken(s, start); ok {
			return token, true
		}
	}
	return Token{}, false
}

func matchToken(s string, start int) (Token, bool) {
	i := start + 1
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	nameEnd := i
	if nameEnd == start+1 || i >= len(s) || s[i] != ':' {
		return Token{}, false
	}

	formatStart := i + 1
	closing := strings.IndexByte(s[formatStart:], '}')
	if closing <= 0 {
		return Token{}, false
	}
	formatEnd := formatStart + closing

	return Token{
		Name:   s[start+1 : nameEnd],
		Format: s[formatStart:formatEnd],
		Start:  start,
		End:    formatEnd + 1,
	}, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
