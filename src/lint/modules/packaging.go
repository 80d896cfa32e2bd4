package modules

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/lint"
	"github.com/sofmeright/buildcfg/src/resolve"
)

func init() {
	lint.Register("packaging", func() lint.Module { return &packagingModule{} })
}

// packagingModule inspects packaging exclusion patterns. Malformed patterns
// fail resolution; the rest are hints.
type packagingModule struct{}

func (m *packagingModule) Name() string        { return "packaging" }
func (m *packagingModule) DefaultEnabled() bool { return true }

func (m *packagingModule) Applies(kind lint.FileKind) bool { return kind == lint.KindDescriptor }

func (m *packagingModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}
	raw, err := config.Load(file.AbsPath)
	if err != nil {
		return []lint.Finding{{
			File:     file.Path,
			Module:   m.Name(),
			Severity: lint.SeverityInfo,
			Message:  fmt.Sprintf("not checked: %v", err),
		}}, nil
	}

	var findings []lint.Finding
	add := func(sev lint.Severity, pattern, format string, args ...any) {
		line := lineOf(data, strconv.Quote(pattern))
		if line == 0 {
			line = lineOf(data, pattern)
		}
		findings = append(findings, lint.Finding{
			File:     file.Path,
			Line:     line,
			Module:   m.Name(),
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	check := func(field string, patterns []string, inherited map[string]bool) map[string]bool {
		seen := make(map[string]bool, len(patterns))
		for _, p := range patterns {
			if err := resolve.ValidateGlob(p); err != nil {
				add(lint.SeverityCritical, p, "%s: %v", field, err)
				continue
			}
			if seen[p] {
				add(lint.SeverityInfo, p, "%s: duplicate pattern %q", field, p)
				continue
			}
			seen[p] = true
			if inherited[p] {
				add(lint.SeverityInfo, p, "%s: %q is already excluded for every variant", field, p)
			}
			if !strings.Contains(p, "/") {
				add(lint.SeverityWarning, p, "%s: %q only matches resources at the archive root; use **/%s to match anywhere", field, p, p)
			}
		}
		return seen
	}

	base := check("packaging_exclusions", raw.PackagingExclusions, nil)

	names := make([]string, 0, len(raw.Variants))
	for name := range raw.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		check("variants."+name+".packaging_exclusions", raw.Variants[name].PackagingExclusions, base)
	}

	return findings, nil
}
