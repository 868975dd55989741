package shipping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPolicy reads a YAML policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read shipping policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes YAML on top of DefaultPolicy.
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("decode shipping policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
