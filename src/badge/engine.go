package badge

import (
	"strconv"

	"github.com/sofmeright/buildcfg/src/resolve"
)

// Badge colors.
const (
	ColorGreen  = "#4c1"
	ColorBlue   = "#007ec6"
	ColorYellow = "#dfb317"
	ColorRed    = "#e05d44"
)

// Engine generates SVG badges using one font.
type Engine struct {
	metrics *FontMetrics

	// EmbedFont inlines the font as a base64 @font-face rule so the badge
	// renders identically without the font installed.
	EmbedFont bool
}

// New creates a badge engine with the given font metrics.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// Badge is the content of a single badge.
type Badge struct {
	Label string
	Value string
	Color string
}

// Generate produces a flat SVG badge.
func (e *Engine) Generate(b Badge) string {
	return e.renderSVG(b)
}

// Named pairs a badge with the file stem it is written under.
type Named struct {
	Name  string
	Badge Badge
}

// ForDescriptor returns the platform version badges for d: minSdk,
// targetSdk and compileSdk. targetSdk turns yellow when it lags
// compileSdk.
func ForDescriptor(d resolve.BuildDescriptor) []Named {
	target := ColorGreen
	if d.TargetPlatformVersion < d.CompilePlatformVersion {
		target = ColorYellow
	}
	return []Named{
		{"min-sdk", Badge{Label: "minSdk", Value: strconv.Itoa(d.MinPlatformVersion), Color: ColorBlue}},
		{"target-sdk", Badge{Label: "targetSdk", Value: strconv.Itoa(d.TargetPlatformVersion), Color: target}},
		{"compile-sdk", Badge{Label: "compileSdk", Value: strconv.Itoa(d.CompilePlatformVersion), Color: ColorGreen}},
	}
}

// StatusColor maps a check outcome to a badge color.
func StatusColor(status string) string {
	switch status {
	case "warning":
		return ColorYellow
	case "critical", "failed":
		return ColorRed
	default:
		return ColorGreen
	}
}
