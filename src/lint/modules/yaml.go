package modules

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sofmeright/buildcfg/src/lint"
)

func init() {
	lint.Register("yaml", func() lint.Module { return &yamlModule{} })
}

// yamlModule checks YAML descriptors and signing tables for syntax errors,
// duplicate keys and tab indentation.
type yamlModule struct{}

func (m *yamlModule) Name() string        { return "yaml" }
func (m *yamlModule) DefaultEnabled() bool { return true }

// Applies to both kinds; Check skips non-YAML descriptors by extension.
func (m *yamlModule) Applies(kind lint.FileKind) bool { return lint.AnyKind(kind) }

func (m *yamlModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	if !isYAML(file.Path) {
		return nil, nil
	}

	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	findings := m.tabs(file, data)

	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil && !errors.Is(err, io.EOF) {
		return append(findings, lint.Finding{
			File:     file.Path,
			Module:   m.Name(),
			Severity: lint.SeverityCritical,
			Message:  fmt.Sprintf("YAML parse error: %v", err),
		}), nil
	}

	m.walk(&node, file.Path, &findings)
	return findings, nil
}

func (m *yamlModule) tabs(file lint.FileInfo, data []byte) []lint.Finding {
	var findings []lint.Finding
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		if strings.HasPrefix(scanner.Text(), "\t") {
			findings = append(findings, lint.Finding{
				File:     file.Path,
				Line:     line,
				Module:   m.Name(),
				Severity: lint.SeverityInfo,
				Message:  "tab indentation (spaces expected)",
			})
		}
	}
	return findings
}

// walk flags repeated mapping keys. Decoding into a yaml.Node keeps both
// copies; config.Load would refuse the file.
func (m *yamlModule) walk(node *yaml.Node, path string, findings *[]lint.Finding) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			m.walk(child, path, findings)
		}
	case yaml.MappingNode:
		seen := make(map[string]*yaml.Node)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if first, ok := seen[key.Value]; ok {
				*findings = append(*findings, lint.Finding{
					File:     path,
					Line:     key.Line,
					Module:   m.Name(),
					Severity: lint.SeverityCritical,
					Message:  fmt.Sprintf("duplicate key %q (first defined at line %d)", key.Value, first.Line),
				})
			} else {
				seen[key.Value] = key
			}
			m.walk(node.Content[i+1], path, findings)
		}
	}
}
