package assertion

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseAssertionString parses a compact assertion of the form
// "<type> <target> [args]" into a Definition. The optional
// argument list is a YAML flow sequence.
//
// Examples:
//
//	"called fetch"                 -> called on fetch
//	"calledWith fetch [1, two]"    -> calledWith fetch 1, "two"
//	"callOrder open [read, close]" -> open, then read, then close
func ParseAssertionString(s string) (Definition, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Definition{}, fmt.Errorf(
			"invalid assertion %q: want \"<type> <target> [args]\"", s,
		)
	}

	def := Definition{Type: fields[0], Target: fields[1]}

	rest := strings.TrimSpace(s)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
	if rest == "" {
		return def, nil
	}

	if err := yaml.Unmarshal([]byte(rest), &def.Values); err != nil {
		return Definition{}, fmt.Errorf(
			"invalid assertion arguments %q: %w", rest, err,
		)
	}
	return def, nil
}

// ParseDefinitions decodes a YAML document holding a list of
// definitions. Entries may be mappings or compact strings.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	defs := make([]Definition, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		if node.Kind == yaml.ScalarNode {
			def, err := ParseAssertionString(node.Value)
			if err != nil {
				return nil, fmt.Errorf("definition %d: %w", i, err)
			}
			defs = append(defs, def)
			continue
		}

		var def Definition
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("definition %d: %w", i, err)
		}
		if def.Type == "" || def.Target == "" {
			return nil, fmt.Errorf(
				"definition %d: type and target are required", i,
			)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
