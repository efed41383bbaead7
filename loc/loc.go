// Package loc provides a small localization table with key fallback:
// when no translation exists the source string itself is the answer.
package loc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Localizer maps source strings to locale-specific strings.
type Localizer struct {
	table map[string]string
}

// New builds a Localizer over the given table. A nil table is valid
// and yields pass-through behaviour.
func New(table map[string]string) *Localizer {
	return &Localizer{table: table}
}

// Load reads a YAML file of source -> translation pairs.
func Load(path string) (*Localizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loc: read %s: %w", path, err)
	}
	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("loc: parse %s: %w", path, err)
	}
	return &Localizer{table: table}, nil
}

// Text returns the translation for key, or key itself when missing.
// Safe to call on a nil Localizer.
func (l *Localizer) Text(key string) string {
	if l == nil {
		return key
	}
	if translated, ok := l.table[key]; ok {
		return translated
	}
	return key
}

// Textf translates the format string, then applies the arguments.
func (l *Localizer) Textf(format string, args ...any) string {
	return fmt.Sprintf(l.Text(format), args...)
}
