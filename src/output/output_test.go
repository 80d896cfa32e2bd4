package output

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sofmeright/buildcfg/src/check"
	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/lint"
	"github.com/sofmeright/buildcfg/src/resolve"
)

func TestSectionFrame(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Resolve", 0, false)
	sec.Row("hello %d", 1)
	sec.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "── Resolve ") || !strings.HasSuffix(lines[0], "──") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "    │ hello 1" {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    └") {
		t.Errorf("footer = %q", lines[2])
	}
}

func TestSectionErrorAlignsLocations(t *testing.T) {
	_, err := resolve.Resolve(config.RawDescriptor{Version: 1}, nil)
	if err == nil {
		t.Fatal("empty descriptor should not resolve")
	}

	var buf bytes.Buffer
	SectionError(NewSection(&buf, "Errors", 0, false), err, false)
	out := buf.String()
	for _, want := range []string{"application_id", "min_platform_version", "MissingField"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	SectionError(NewSection(&buf, "Errors", 0, false), errors.New("plain failure"), false)
	if !strings.Contains(buf.String(), "✗ plain failure") {
		t.Errorf("plain error row:\n%s", buf.String())
	}
}

func TestFindingsSummaryLine(t *testing.T) {
	findings := []lint.Finding{
		{Severity: lint.SeverityCritical},
		{Severity: lint.SeverityWarning},
		{Severity: lint.SeverityWarning},
	}
	got := FindingsSummaryLine(findings, 2, false)
	if got != "3 findings in 2 files: 1 critical, 2 warning" {
		t.Errorf("summary = %q", got)
	}
	if got := FindingsSummaryLine(nil, 1, false); got != "0 findings in 1 files: no findings" {
		t.Errorf("empty summary = %q", got)
	}
}

func TestStatusIcon(t *testing.T) {
	if StatusIcon("success", false) != "✓" || StatusIcon("failed", false) != "✗" || StatusIcon("other", false) != "⊘" {
		t.Error("plain icons")
	}
	if got := StatusIcon("warning", true); !strings.HasPrefix(got, "\033[33m") {
		t.Errorf("colored warning icon = %q", got)
	}
}

func TestWriteJUnit(t *testing.T) {
	results := []check.Result{
		{File: "a.yml"},
		{File: "b.yml", Err: errors.New("MissingField: application_id; MissingField: min_platform_version")},
	}
	report := CheckJUnit(results, 0)
	if report.Tests != 2 || report.Failures != 1 {
		t.Fatalf("report = %+v", report)
	}

	dir := filepath.Join(t.TempDir(), "reports")
	if err := WriteJUnit(dir, "check.xml", report); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "check.xml"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded JUnitTestSuites
	if err := xml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Suites) != 1 || decoded.Suites[0].Cases[1].Failure == nil {
		t.Errorf("decoded = %+v", decoded)
	}
}
