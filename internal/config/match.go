package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// matchFile is the optional YAML override for the scoring engine:
//
//	jitter: seeded
//	jitter_seed: 42
//	vocabulary: [Go, Rust, React]
type matchFile struct {
	Jitter     string   `yaml:"jitter"`
	JitterSeed *int64   `yaml:"jitter_seed"`
	Vocabulary []string `yaml:"vocabulary"`
}

func (m *MatchConfig) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read match config: %w", err)
	}
	return m.applyYAML(b)
}

func (m *MatchConfig) applyYAML(b []byte) error {
	var f matchFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse match config: %w", err)
	}
	if j := strings.ToLower(strings.TrimSpace(f.Jitter)); j != "" {
		m.Jitter = j
	}
	if f.JitterSeed != nil {
		m.JitterSeed = *f.JitterSeed
	}
	if len(f.Vocabulary) > 0 {
		m.Vocabulary = make([]string, 0, len(f.Vocabulary))
		for _, v := range f.Vocabulary {
			if v = strings.TrimSpace(v); v != "" {
				m.Vocabulary = append(m.Vocabulary, v)
			}
		}
	}
	return nil
}
