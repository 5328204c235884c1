package config

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YamlLoader loads a faucets Config from a YAML file.
type YamlLoader struct {
	Path string
}

var _ Loader = (*YamlLoader)(nil)

// Load reads and strictly decodes the YAML config file.
func (l *YamlLoader) Load(ctx context.Context) (*Config, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", l.Path, err)
	}
	var out Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	// The config decoder is strict: unknown fields are likely misspellings.
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode config %q: %w", l.Path, err)
	}
	return &out, nil
}
