package markovbench

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet is a named rule list stored as YAML:
//
//	name: unary-double
//	description: doubles a run of a's
//	word: a
//	rules:
//	  - "a : bb"
//	  - "b : a."
//
// Each entry of rules is one grammar line; list order is priority order.
type RuleSet struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Word        string   `yaml:"word,omitempty" json:"word,omitempty"` // Default seed / base word
	Rules       []string `yaml:"rules" json:"rules"`
}

// ParseRuleSet decodes a YAML rule set.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	return &rs, nil
}

// LoadRuleSet reads and decodes a YAML rule set file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule set: %w", err)
	}

	rs, err := ParseRuleSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Text joins the rules back into grammar text.
func (rs *RuleSet) Text() string {
	return strings.Join(rs.Rules, "\n")
}

// Compile parses the rule lines. Line numbers in errors are list positions.
func (rs *RuleSet) Compile() ([]Rule, error) {
	rules, err := ParseRules(rs.Text())
	if err != nil {
		return nil, fmt.Errorf("rule set %q: %w", rs.Name, err)
	}
	return rules, nil
}

// Marshal encodes the rule set as YAML.
func (rs *RuleSet) Marshal() ([]byte, error) {
	return yaml.Marshal(rs)
}
