package markovbench

import (
	"errors"
	"strings"
)

// ParseRules turns rule text into rules, one per non-blank line, in priority order.
//
// Grammar per line (surrounding whitespace ignored):
//
//	pattern : replacement      ordinary rule
//	pattern : replacement .    terminal rule
//
// The line is split at the first separator and both sides are trimmed, so an
// empty pattern or replacement is written by leaving its side blank (":x").
// Blank text yields no rules and no error; building an Engine from that is
// what fails.
func ParseRules(text string) ([]Rule, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rules := make([]Rule, 0, len(lines))

	for i, line := range lines {
		n := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		terminal := strings.HasSuffix(line, TerminalMarker)
		if terminal {
			line = strings.TrimSuffix(line, TerminalMarker)
		}

		lhs, rhs, ok := strings.Cut(line, Separator)
		if !ok {
			return nil, &ValidationError{Line: n, Reason: "no '" + Separator + "'"}
		}

		rule, err := NewRule(strings.TrimSpace(lhs), strings.TrimSpace(rhs), terminal)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Line = n
			}
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
