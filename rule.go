package markovbench

import "strings"

// Separator splits pattern from replacement in the textual rule grammar.
// It may not appear inside either field.
const Separator = ":"

// TerminalMarker ends a terminal rule line.
const TerminalMarker = "."

// Rule is a single rewrite directive. Rules are values; the engine never mutates them.
type Rule struct {
	Pattern     string
	Replacement string
	Terminal    bool
}

// NewRule validates and builds a Rule.
func NewRule(pattern, replacement string, terminal bool) (Rule, error) {
	if strings.Contains(pattern, Separator) || strings.Contains(replacement, Separator) {
		return Rule{}, &ValidationError{Reason: "there must be only one '" + Separator + "'"}
	}
	return Rule{Pattern: pattern, Replacement: replacement, Terminal: terminal}, nil
}

// Descriptor is the "pattern:replacement" form recorded in traces.
func (r Rule) Descriptor() string {
	return r.Pattern + Separator + r.Replacement
}

// String renders the rule back into grammar form.
func (r Rule) String() string {
	if r.Terminal {
		return r.Descriptor() + TerminalMarker
	}
	return r.Descriptor()
}
