package lexgen

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// yamlRuleFile is the on-disk shape of a lexical rule set, e.g.:
//
//	rules:
//	  - name: IDENTIFIER
//	    pattern: "[a-zA-Z_][a-zA-Z0-9_]*"
//	  - name: INT_LITERAL
//	    pattern: "[0-9]+"
//
// Order is assigned by position in the list, matching how a real lex
// tool resolves same-length-match ties by rule declaration order.
type yamlRuleFile struct {
	Rules []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"rules"`
}

// LoadRulesYAML parses a lexical rule set from YAML, assigning Order by
// declaration position. This lets deployments override or extend the
// built-in MiniC token set (minic.Rules) without a recompile.
func LoadRulesYAML(data []byte) ([]Rule, error) {
	var file yamlRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("lexgen: parsing rule file: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("lexgen: rule file declares no rules")
	}

	rules := make([]Rule, len(file.Rules))
	for i, r := range file.Rules {
		if r.Name == "" || r.Pattern == "" {
			return nil, fmt.Errorf("lexgen: rule %d missing name or pattern", i)
		}
		rules[i] = Rule{Name: r.Name, Pattern: r.Pattern, Order: i}
	}
	return rules, nil
}
