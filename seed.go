package genblog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eringen/genblog/analytics"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the sample data every new workspace starts from.
type Seed struct {
	Posts     []BlogPost        `yaml:"posts"`
	Analytics []analytics.Point `yaml:"analytics"`
}

// LoadSeed parses the embedded sample data.
func LoadSeed() (Seed, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed parses seed data from YAML and checks the store invariants.
func ParseSeed(data []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	seen := make(map[string]struct{}, len(s.Posts))
	for _, p := range s.Posts {
		if p.ID == "" {
			return Seed{}, fmt.Errorf("seed post %q: missing id", p.Title)
		}
		if _, dup := seen[p.ID]; dup {
			return Seed{}, fmt.Errorf("seed post %q: %w", p.ID, ErrDuplicateID)
		}
		seen[p.ID] = struct{}{}
		if p.Views < 0 {
			return Seed{}, fmt.Errorf("seed post %q: negative views", p.ID)
		}
	}
	if err := analytics.Validate(s.Analytics); err != nil {
		return Seed{}, fmt.Errorf("seed analytics: %w", err)
	}
	return s, nil
}
