package modules

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/buildcfg/src/lint"
	"github.com/sofmeright/buildcfg/src/signing"
)

func init() {
	lint.Register("secrets", func() lint.Module { return &secretsModule{} })
}

// secretsModule runs the gitleaks default rules over descriptors and signing
// tables. Findings name the key the secret sits under. Lines holding an
// env: reference are never reported.
type secretsModule struct {
	detector *detect.Detector
}

func (m *secretsModule) Name() string                    { return "secrets" }
func (m *secretsModule) DefaultEnabled() bool            { return true }
func (m *secretsModule) Applies(kind lint.FileKind) bool { return lint.AnyKind(kind) }

func (m *secretsModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	if m.detector == nil {
		if m.detector, err = detect.NewDetectorDefaultConfig(); err != nil {
			return nil, fmt.Errorf("loading gitleaks rules: %w", err)
		}
	}

	lines := bytes.Split(data, []byte("\n"))
	var findings []lint.Finding
	for _, h := range m.detector.DetectBytes(data) {
		line := h.StartLine + 1 // gitleaks lines are 0-based
		text := ""
		if line <= len(lines) {
			text = string(lines[line-1])
		}
		if strings.Contains(text, signing.EnvPrefix) {
			continue
		}

		msg := h.Description + " (" + h.RuleID + ")"
		if key := keyOf(text); key != "" {
			msg = fmt.Sprintf("%s holds a secret: %s", key, msg)
		}
		findings = append(findings, lint.Finding{
			File:     file.Path,
			Line:     line,
			Module:   m.Name(),
			Severity: lint.SeverityCritical,
			Message:  msg,
		})
	}
	return findings, nil
}

// keyOf returns the key of a "key: value" or "key = value" line.
func keyOf(line string) string {
	line = strings.TrimLeft(line, " \t#-")
	i := strings.IndexAny(line, ":=")
	if i <= 0 {
		return ""
	}
	key := strings.TrimSpace(line[:i])
	if strings.ContainsAny(key, " \t\"'") {
		return ""
	}
	return key
}
