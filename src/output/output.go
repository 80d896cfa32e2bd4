// Package output renders command results as framed terminal sections.
package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sofmeright/buildcfg/src/lint"
	"github.com/sofmeright/buildcfg/src/resolve"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func colorize(text, code string, color bool) string {
	if !color {
		return text
	}
	return code + text + colorReset
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stdout) || IsCI()
}

// severityTag returns a short severity label, optionally colored.
func severityTag(s lint.Severity, color bool) string {
	switch s {
	case lint.SeverityCritical:
		return colorize("CRIT", colorRed, color)
	case lint.SeverityWarning:
		return colorize("WARN", colorYellow, color)
	case lint.SeverityInfo:
		return colorize("INFO", colorGray, color)
	default:
		return s.String()
	}
}

// FindingsSummaryLine returns a one-line findings summary, optionally colored.
func FindingsSummaryLine(findings []lint.Finding, filesScanned int, color bool) string {
	var critical, warning, info int
	for _, f := range findings {
		switch f.Severity {
		case lint.SeverityCritical:
			critical++
		case lint.SeverityWarning:
			warning++
		default:
			info++
		}
	}

	var parts []string
	if critical > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d critical", critical), colorRed, color))
	}
	if warning > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d warning", warning), colorYellow, color))
	}
	if info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", info))
	}

	summary := "no findings"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}
	total := colorize(fmt.Sprintf("%d", len(findings)), colorBold, color)
	return fmt.Sprintf("%s findings in %d files: %s", total, filesScanned, summary)
}

// LintTable writes a per-module stats table inside a section.
func LintTable(sec *Section, stats []lint.ModuleStats) {
	sec.Row("%-20s%6s  %8s  %8s", "module", "files", "critical", "findings")
	for _, s := range stats {
		sec.Row("%-20s%6d  %8d  %8d", s.Name, s.Files, s.Critical, s.Findings)
	}
}

// SectionFindings renders findings grouped by file inside a section.
// Files are sorted lexicographically; findings within a file by line,
// module and message.
func SectionFindings(sec *Section, findings []lint.Finding, color bool) {
	if len(findings) == 0 {
		return
	}

	byFile := map[string][]lint.Finding{}
	for _, f := range findings {
		byFile[f.File] = append(byFile[f.File], f)
	}
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	sec.Row("")
	for _, file := range files {
		ff := byFile[file]
		sort.Slice(ff, func(i, j int) bool {
			a, b := ff[i], ff[j]
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			if a.Module != b.Module {
				return a.Module < b.Module
			}
			return a.Message < b.Message
		})

		sec.Row("%s", colorize(file, colorBold, color))
		for _, f := range ff {
			loc := "-"
			if f.Line > 0 {
				loc = fmt.Sprintf("%d", f.Line)
			}
			sec.Row("  %-6s %-4s  %-18s %s", loc, severityTag(f.Severity, color), colorize(f.Module, colorCyan, color), f.Message)
		}
		sec.Row("")
	}
}

// SectionError renders err inside a section. Resolution errors get one
// row per failure with the field location aligned; anything else is a
// single row.
func SectionError(sec *Section, err error, color bool) {
	var errs resolve.Errors
	if !errors.As(err, &errs) {
		sec.Row("%s %s", StatusIcon("failed", color), err.Error())
		return
	}

	width := 0
	for _, e := range errs {
		if n := len(e.Location()); n > width {
			width = n
		}
	}
	for _, e := range errs {
		detail := e.Kind.Error()
		if e.Detail != "" {
			detail += ": " + e.Detail
		}
		sec.Row("%s %-*s  %s", StatusIcon("failed", color), width, e.Location(), detail)
	}
}

// SectionWarnings renders soft warnings as WARN rows.
func SectionWarnings(sec *Section, warnings []string, color bool) {
	for _, w := range warnings {
		sec.Row("%s  %s", severityTag(lint.SeverityWarning, color), w)
	}
}

// SectionDescriptor writes the headline fields of a resolved descriptor.
func SectionDescriptor(sec *Section, d resolve.BuildDescriptor, color bool) {
	rows := []KV{
		{"application", d.ApplicationID},
		{"version", fmt.Sprintf("%s (%d)", d.VersionName, d.VersionCode)},
		{"platform", fmt.Sprintf("min %d  target %d  compile %d", d.MinPlatformVersion, d.TargetPlatformVersion, d.CompilePlatformVersion)},
		{"toolchain", d.ToolchainVersion},
		{"language", string(d.LanguageLevel)},
	}
	for _, kv := range rows {
		sec.Row("%-12s %s", kv.Key, kv.Value)
	}
	for _, v := range d.Variants {
		signing := v.SigningReference
		if signing == "" {
			signing = Dimmed("unsigned", color)
		}
		sec.Row("%-12s %s  signing=%s minify=%t shrink=%t", v.Name, v.ApplicationID, signing, v.Minify, v.ShrinkResources)
	}
}

// RowStatus writes a row with label, detail and a status icon.
func RowStatus(sec *Section, label, detail, status string, color bool) {
	icon := StatusIcon(status, color)
	if detail != "" {
		sec.Row("%s  %s %s", label, detail, icon)
	} else {
		sec.Row("%s %s", label, icon)
	}
}
