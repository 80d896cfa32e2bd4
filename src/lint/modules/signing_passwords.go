package modules

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sofmeright/buildcfg/src/lint"
	"github.com/sofmeright/buildcfg/src/signing"
)

func init() {
	lint.Register("signing-passwords", func() lint.Module { return &signingPasswordsModule{} })
}

// signingPasswordsModule flags keystore passwords written out literally in a
// signing table instead of referencing an environment variable. The stock
// debug keystore password is public and allowed.
type signingPasswordsModule struct{}

func (m *signingPasswordsModule) Name() string        { return "signing-passwords" }
func (m *signingPasswordsModule) DefaultEnabled() bool { return true }

func (m *signingPasswordsModule) Applies(kind lint.FileKind) bool { return kind == lint.KindSigning }

var passwordKeys = []string{"store_password", "key_password"}

func (m *signingPasswordsModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, nil // the yaml module reports syntax errors
	}

	entries := mappingValue(documentRoot(&doc), "signing")
	if entries == nil || entries.Kind != yaml.MappingNode {
		return nil, nil
	}

	debug := signing.Default()[signing.DebugName]

	var findings []lint.Finding
	for i := 0; i+1 < len(entries.Content); i += 2 {
		name := entries.Content[i].Value
		entry := entries.Content[i+1]
		for _, key := range passwordKeys {
			v := mappingValue(entry, key)
			if v == nil || v.Kind != yaml.ScalarNode || v.Value == "" || signing.IsReference(v.Value) {
				continue
			}
			if name == signing.DebugName && (v.Value == debug.StorePassword || v.Value == debug.KeyPassword) {
				continue
			}
			findings = append(findings, lint.Finding{
				File:     file.Path,
				Line:     v.Line,
				Module:   m.Name(),
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("signing.%s.%s is a literal password; use %s<VAR>", name, key, signing.EnvPrefix),
			})
		}
	}
	return findings, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
