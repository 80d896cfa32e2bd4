package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const sectionWidth = 61 // inner width between │ and line end

// Section renders a box-drawing framed output section.
type Section struct {
	w     io.Writer
	name  string
	color bool
}

// NewSection creates a section and writes its header. A non-zero elapsed
// is shown right-aligned in the header.
func NewSection(w io.Writer, name string, elapsed time.Duration, color bool) *Section {
	s := &Section{w: w, name: name, color: color}
	s.writeHeader(elapsed)
	return s
}

// Row writes a content line inside the section frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "    │ %s\n", fmt.Sprintf(format, args...))
}

// Separator writes a mid-section divider.
func (s *Section) Separator() {
	fmt.Fprintf(s.w, "    ├%s\n", strings.Repeat("─", sectionWidth))
}

// Close writes the section footer.
func (s *Section) Close() {
	fmt.Fprintf(s.w, "    └%s\n", strings.Repeat("─", sectionWidth))
}

// writeHeader renders: ── Name ──────────────────── elapsed ──
func (s *Section) writeHeader(elapsed time.Duration) {
	label := fmt.Sprintf("── %s ", s.name)
	suffix := "──"
	if elapsed > 0 {
		suffix = fmt.Sprintf(" %s ──", formatElapsed(elapsed))
	}

	// label and suffix may hold multi-byte box runes
	fill := sectionWidth + 4 - len([]rune(label)) - len([]rune(suffix))
	if fill < 1 {
		fill = 1
	}

	header := label + strings.Repeat("─", fill) + suffix
	if s.color {
		header = "\033[2;36m" + header + colorReset
	}
	fmt.Fprintf(s.w, "\n    %s\n", header)
}

var statusIcons = map[string]struct{ plain, ansi string }{
	"success": {"✓", "\033[32m"},
	"warning": {"!", "\033[33m"},
	"failed":  {"✗", "\033[31m"},
}

// StatusIcon returns the icon for success, warning or failed; anything
// else is shown as skipped.
func StatusIcon(status string, color bool) string {
	icon, ok := statusIcons[status]
	if !ok {
		icon = struct{ plain, ansi string }{"⊘", "\033[33m"}
	}
	if !color {
		return icon.plain
	}
	return icon.ansi + icon.plain + colorReset
}

// Dimmed returns dimmed text if color is enabled.
func Dimmed(text string, color bool) string {
	return colorize(text, colorGray, color)
}

// KV is a key-value pair.
type KV struct {
	Key   string
	Value string
}

// formatElapsed formats a duration for display in section headers.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	return fmt.Sprintf("%dm%.1fs", mins, d.Seconds()-float64(mins*60))
}

// SummaryRow writes a summary line with status icon.
func SummaryRow(sec *Section, name, status, detail string) {
	sec.Row("%-24s%s  %s", name, StatusIcon(status, sec.color), detail)
}
