package badge

import (
	"strings"
	"testing"

	"github.com/sofmeright/buildcfg/src/resolve"
)

func TestDefaultFontMeasures(t *testing.T) {
	m, err := DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont: %v", err)
	}
	if m.FontName() == "" || m.FontSize() != DefaultFontSize {
		t.Errorf("name=%q size=%g", m.FontName(), m.FontSize())
	}
	if w := m.TextWidth("compileSdk"); w <= m.TextWidth("minSdk") {
		t.Errorf("longer label should be wider: %g", w)
	}
	if m.TextWidth("") != 0 {
		t.Error("empty string should have zero width")
	}
	if m.TextWidth("é") <= 0 {
		t.Error("non-ASCII rune should use the fallback advance")
	}
}

func TestGenerate(t *testing.T) {
	m, err := DefaultFont()
	if err != nil {
		t.Fatal(err)
	}
	e := New(m)

	svg := e.Generate(Badge{Label: "minSdk", Value: "<21>", Color: ColorBlue})
	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("not an svg document: %s", svg)
	}
	if !strings.Contains(svg, "&lt;21&gt;") || strings.Contains(svg, "<21>") {
		t.Error("value must be escaped")
	}
	if strings.Contains(svg, "@font-face") {
		t.Error("font embedded without EmbedFont")
	}

	e.EmbedFont = true
	if svg := e.Generate(Badge{Label: "a", Value: "b", Color: ColorGreen}); !strings.Contains(svg, "data:font/ttf;base64,") {
		t.Error("EmbedFont should inline the font")
	}
}

func TestForDescriptor(t *testing.T) {
	d := resolve.BuildDescriptor{MinPlatformVersion: 21, TargetPlatformVersion: 33, CompilePlatformVersion: 34}
	badges := ForDescriptor(d)
	if len(badges) != 3 {
		t.Fatalf("got %d badges", len(badges))
	}
	if badges[0].Badge.Value != "21" || badges[2].Badge.Label != "compileSdk" {
		t.Errorf("badges = %+v", badges)
	}
	if badges[1].Badge.Color != ColorYellow {
		t.Errorf("lagging targetSdk color = %s", badges[1].Badge.Color)
	}

	d.TargetPlatformVersion = 34
	if c := ForDescriptor(d)[1].Badge.Color; c != ColorGreen {
		t.Errorf("targetSdk color = %s", c)
	}
}
