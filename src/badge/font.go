// Package badge renders flat SVG badges for resolved build descriptors.
// Text widths are measured from real glyph advances, not estimated.
package badge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFontSize matches the shields.io flat style.
const DefaultFontSize = 11

// FontMetrics holds measured glyph widths and the font bytes for embedding.
type FontMetrics struct {
	name     string
	size     float64
	data     []byte
	advances map[rune]float64 // printable ASCII only
	fallback float64          // mean advance, used for anything else
}

// TextWidth returns the pixel width of s.
func (m *FontMetrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if adv, ok := m.advances[r]; ok {
			w += adv
		} else {
			w += m.fallback
		}
	}
	return w
}

func (m *FontMetrics) FontData() []byte  { return m.data }
func (m *FontMetrics) FontName() string  { return m.name }
func (m *FontMetrics) FontSize() float64 { return m.size }

// DefaultFont measures Go Regular, which ships with golang.org/x/image.
func DefaultFont() (*FontMetrics, error) {
	return LoadFont("Go", goregular.TTF, DefaultFontSize)
}

// LoadFontFile loads a TTF or OTF file from disk.
func LoadFontFile(path string, size float64) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	return LoadFont(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), data, size)
}

// LoadFont parses font data and measures glyph advances at size points.
func LoadFont(name string, data []byte, size float64) (*FontMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}

	var face font.Face
	face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", name, err)
	}
	defer face.Close()

	m := &FontMetrics{name: name, size: size, data: data, advances: make(map[rune]float64, 95)}

	var total float64
	for r := rune(' '); r <= '~'; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		px := float64(adv) / 64 // fixed.Int26_6
		m.advances[r] = px
		total += px
	}
	if len(m.advances) > 0 {
		m.fallback = total / float64(len(m.advances))
	} else {
		m.fallback = size * 0.6
	}

	if family, err := f.Name(&sfnt.Buffer{}, sfnt.NameIDFamily); err == nil && family != "" {
		m.name = family
	}
	return m, nil
}
