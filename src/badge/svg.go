package badge

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

const horizontalPadding = 10

func (e *Engine) renderSVG(b Badge) string {
	lw := int(math.Round(e.metrics.TextWidth(b.Label))) + horizontalPadding
	vw := int(math.Round(e.metrics.TextWidth(b.Value))) + horizontalPadding
	w := lw + vw

	label := xmlEscape(b.Label)
	value := xmlEscape(b.Value)
	family := xmlEscape(fmt.Sprintf("'%s',Verdana,Geneva,sans-serif", e.metrics.FontName()))

	var s strings.Builder
	fmt.Fprintf(&s, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">`, w, label, value)
	fmt.Fprintf(&s, `<title>%s: %s</title>`, label, value)

	s.WriteString(`<defs>`)
	if e.EmbedFont {
		fmt.Fprintf(&s, `<style type="text/css">%s</style>`, fontFaceCSS(e.metrics.FontName(), e.metrics.FontData()))
	}
	s.WriteString(`<linearGradient id="s" x2="0" y2="100%"><stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/></linearGradient>`)
	fmt.Fprintf(&s, `<clipPath id="r"><rect width="%d" height="20" rx="3" fill="#fff"/></clipPath>`, w)
	s.WriteString(`</defs>`)

	s.WriteString(`<g clip-path="url(#r)">`)
	fmt.Fprintf(&s, `<rect width="%d" height="20" fill="#555"/>`, lw)
	fmt.Fprintf(&s, `<rect x="%d" width="%d" height="20" fill="%s"/>`, lw, vw, xmlEscape(b.Color))
	fmt.Fprintf(&s, `<rect width="%d" height="20" fill="url(#s)"/>`, w)
	s.WriteString(`</g>`)

	fmt.Fprintf(&s, `<g fill="#fff" text-anchor="middle" font-family="%s" font-size="%g">`, family, e.metrics.FontSize())
	for _, t := range []struct {
		x    int
		text string
	}{{lw / 2, label}, {lw + vw/2, value}} {
		fmt.Fprintf(&s, `<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>`, t.x, t.text)
		fmt.Fprintf(&s, `<text x="%d" y="14">%s</text>`, t.x, t.text)
	}
	s.WriteString(`</g></svg>`)
	return s.String()
}

// fontFaceCSS returns an @font-face rule with the font inlined.
func fontFaceCSS(name string, data []byte) string {
	mime, format := "font/ttf", "truetype"
	if len(data) >= 4 && string(data[:4]) == "OTTO" {
		mime, format = "font/otf", "opentype"
	}
	return fmt.Sprintf(`@font-face{font-family:'%s';src:url(data:%s;base64,%s) format('%s')}`,
		name, mime, base64.StdEncoding.EncodeToString(data), format)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func xmlEscape(s string) string { return xmlReplacer.Replace(s) }
