// Package devicealias loads an optional on-disk YAML file mapping device
// UIDs to human-friendly names, so a picker can show "Studio Interface"
// instead of whatever CoreAudio's UID string happens to be.
package devicealias

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Map is a UID -> alias lookup. A nil or empty Map resolves every UID to its
// fallback, so callers never need to nil-check before calling Resolve.
type Map map[string]string

// Load reads a YAML document of "uid: alias" pairs from path. A missing file
// is not an error - it just means no aliases are configured.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Map{}, nil
		}
		return nil, err
	}

	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// Resolve returns the configured alias for uid, or fallback if none exists.
func (m Map) Resolve(uid, fallback string) string {
	if alias, ok := m[uid]; ok && alias != "" {
		return alias
	}
	return fallback
}
