// Package reference holds the static agent roster and disposition list.
package reference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// Tables is the read-only reference data served to the UI
type Tables struct {
	Agents       []types.AgentRef    `yaml:"agents"`
	Dispositions []types.Disposition `yaml:"dispositions"`
}

// Defaults returns a copy of the built-in tables
func Defaults() *Tables {
	return &Tables{
		Agents:       append([]types.AgentRef(nil), defaultAgents...),
		Dispositions: append([]types.Disposition(nil), defaultDispositions...),
	}
}

// Load returns the built-in tables, with any section present in the YAML
// file at path replacing its default. An empty path yields the defaults.
func Load(path string) (*Tables, error) {
	tables := Defaults()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}

	if len(override.Agents) > 0 {
		tables.Agents = override.Agents
	}
	if len(override.Dispositions) > 0 {
		tables.Dispositions = override.Dispositions
	}

	if err := tables.validate(); err != nil {
		return nil, fmt.Errorf("invalid reference data in %s: %w", path, err)
	}
	return tables, nil
}

func (t *Tables) validate() error {
	seen := make(map[string]bool, len(t.Agents))
	for i, a := range t.Agents {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("agent %d: id and name are required", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent id %s", a.ID)
		}
		seen[a.ID] = true
	}

	codes := make(map[string]bool, len(t.Dispositions))
	for i, d := range t.Dispositions {
		if d.Code == "" {
			return fmt.Errorf("disposition %d: code is required", i)
		}
		if codes[d.Code] {
			return fmt.Errorf("duplicate disposition code %s", d.Code)
		}
		codes[d.Code] = true
	}
	return nil
}

// DispositionName returns the label for code, or code itself when unknown
func (t *Tables) DispositionName(code string) string {
	for _, d := range t.Dispositions {
		if d.Code == code {
			return d.Name
		}
	}
	return code
}
