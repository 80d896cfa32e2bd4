package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultDescriptorFile is read when no descriptor path is given.
const DefaultDescriptorFile = "buildcfg.yml"

// CurrentVersion is the latest descriptor schema version.
const CurrentVersion = 1

// Format identifies a descriptor file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// DetectFormat picks the descriptor format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported descriptor extension %q (supported: .yml, .yaml, .toml, .hcl)", filepath.Ext(path))
	}
}

// Load reads a build descriptor from path. If path is empty, it reads the
// default file. Unlike tool configuration, a missing descriptor is an error:
// nothing can be resolved without one.
func Load(path string) (*RawDescriptor, error) {
	if path == "" {
		path = DefaultDescriptorFile
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	raw, err := Parse(data, format, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Parse decodes descriptor bytes in the given format. filename is only used
// in diagnostics.
func Parse(data []byte, format Format, filename string) (*RawDescriptor, error) {
	var (
		raw *RawDescriptor
		err error
	)

	switch format {
	case FormatYAML:
		raw, err = parseYAML(data)
	case FormatTOML:
		raw, err = parseTOML(data)
	case FormatHCL:
		raw, err = ParseHCL(data, filename, environ())
	default:
		return nil, fmt.Errorf("unknown descriptor format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if raw.Version != CurrentVersion {
		return nil, versionError(raw.Version)
	}
	return raw, nil
}

func parseYAML(data []byte) (*RawDescriptor, error) {
	raw := &RawDescriptor{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(raw); err != nil {
		if errors.Is(err, io.EOF) {
			return raw, nil // empty document
		}
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return raw, nil
}

func parseTOML(data []byte) (*RawDescriptor, error) {
	raw := &RawDescriptor{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return raw, nil
}

func versionError(v int) error {
	if v == 0 {
		return fmt.Errorf("descriptor has no version field; run `buildcfg migrate` to upgrade a legacy descriptor to version %d", CurrentVersion)
	}
	return fmt.Errorf("unknown descriptor version %d (latest supported: %d)", v, CurrentVersion)
}

// environ returns the process environment as a map.
func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
