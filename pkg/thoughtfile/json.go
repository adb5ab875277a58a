package thoughtfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/thinkmap/pkg/thought"
)

// ParseJSON parses a thought from JSON.
func ParseJSON(data []byte) (*thought.Thought, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return Reconstruct(&r)
}

// ToJSON converts a thought to JSON.
func ToJSON(t *thought.Thought, pretty bool) ([]byte, error) {
	r := FromThought(t)
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

// ParseYAML parses a thought from YAML.
func ParseYAML(data []byte) (*thought.Thought, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return Reconstruct(&r)
}

// ToYAML converts a thought to YAML.
func ToYAML(t *thought.Thought) ([]byte, error) {
	return yaml.Marshal(FromThought(t))
}

// Format is a stored encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown thought format %q", filepath.Ext(path))
}

// Parse decodes data in format f.
func Parse(data []byte, f Format) (*thought.Thought, error) {
	switch f {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("unknown thought format %q", f)
}

// Encode encodes t in format f.
func Encode(t *thought.Thought, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ToJSON(t, true)
	case FormatYAML:
		return ToYAML(t)
	}
	return nil, fmt.Errorf("unknown thought format %q", f)
}

// ReadFile reads a thought from a .json, .yaml or .yml file.
func ReadFile(path string) (*thought.Thought, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteFile writes t to path in the format its extension names.
func WriteFile(path string, t *thought.Thought) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(t, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
