// Package modules contains all built-in lint modules.
// Import this package to register all modules via their init() functions.
package modules

import (
	"bytes"
	"path/filepath"
)

// isYAML reports whether path has a YAML extension.
func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

// lineOf returns the 1-based line of the first occurrence of s in data,
// or 0 when s does not appear.
func lineOf(data []byte, s string) int {
	i := bytes.Index(data, []byte(s))
	if i < 0 {
		return 0
	}
	return bytes.Count(data[:i], []byte("\n")) + 1
}
