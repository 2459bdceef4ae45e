package sanitize

import (
	"fmt"
	"regexp"
)

// Rule pairs a pattern with its replacement. An empty replacement
// removes the match outright.
type Rule struct {
	// Pattern is a regular expression matched against assistant text.
	Pattern string `yaml:"pattern"`

	// Replacement substitutes for each match. $1-style group
	// references are supported.
	Replacement string `yaml:"replacement"`
}

// DefaultRules covers the operational chatter the backend CLI is known
// to emit into assistant text.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `(?m)^\[tool:[^\]]*\]\s*$\n?`},
		{Pattern: `(?m)^(Executing|Running) [^\n]*\.\.\.\s*$\n?`},
		{Pattern: `\x1b\[[0-9;]*m`},
	}
}

// Filter applies an ordered set of compiled rules to text.
type Filter struct {
	rules []compiledRule
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// New compiles the given rules into a filter. Compilation errors name
// the offending pattern.
func New(rules []Rule) (*Filter, error) {
	f := &Filter{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling sanitize pattern %q: %w", r.Pattern, err)
		}
		f.rules = append(f.rules, compiledRule{re: re, replacement: r.Replacement})
	}
	return f, nil
}

// Apply runs every rule in order. It is pure: the same input always
// yields the same output, so it is safe on whole responses and on
// stream deltas alike.
func (f *Filter) Apply(text string) string {
	if text == "" || len(f.rules) == 0 {
		return text
	}
	for _, r := range f.rules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}
