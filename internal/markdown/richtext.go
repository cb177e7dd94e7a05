// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"unicode"

	"github.com/pdiddy/notion2md/pkg/types"
)

var wrappers = map[string]func(string) string{
	types.AnnotationBold:          Bold,
	types.AnnotationItalic:        Italic,
	types.AnnotationStrikethrough: Strikethrough,
	types.AnnotationUnderline:     Underline,
	types.AnnotationCode:          InlineCode,
}

// NormalizeOrder returns order with unknown and repeated names removed and
// any missing annotation appended in default precedence, innermost last.
func NormalizeOrder(order []string) []string {
	seen := make(map[string]bool, len(wrappers))
	out := make([]string, 0, len(wrappers))
	for _, name := range order {
		if _, ok := wrappers[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range types.DefaultAnnotationOrder {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

func enabled(a types.Annotations, name string) bool {
	switch name {
	case types.AnnotationBold:
		return a.Bold
	case types.AnnotationItalic:
		return a.Italic
	case types.AnnotationStrikethrough:
		return a.Strikethrough
	case types.AnnotationUnderline:
		return a.Underline
	case types.AnnotationCode:
		return a.Code
	}
	return false
}

// Annotate wraps text in the markers of every set annotation. order lists
// wrappers outermost first and must be normalized. Leading and trailing
// whitespace stays outside the markers; whitespace-only text is returned
// unchanged.
func Annotate(text string, a types.Annotations, order []string) string {
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	lead := text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
	trail := text[len(strings.TrimRightFunc(text, unicode.IsSpace)):]
	for i := len(order) - 1; i >= 0; i-- {
		if enabled(a, order[i]) {
			core = wrappers[order[i]](core)
		}
	}
	return lead + core + trail
}

// RenderRun renders a single rich text run.
func RenderRun(r types.RichText, order []string) string {
	if r.IsEquation() {
		return InlineEquation(r.Equation.Expression)
	}
	text := r.PlainText
	if text == "" && r.Text != nil {
		text = r.Text.Content
	}
	if r.Annotations != nil {
		text = Annotate(text, *r.Annotations, order)
	}
	href := r.Href
	if href == "" && r.Text != nil && r.Text.Link != nil {
		href = r.Text.Link.URL
	}
	if href != "" {
		text = Link(text, href)
	}
	return text
}

// RenderRichText renders runs in order into one inline string using the
// given annotation precedence (nil selects the default).
func RenderRichText(runs []types.RichText, order []string) string {
	if len(runs) == 0 {
		return ""
	}
	order = NormalizeOrder(order)
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(RenderRun(r, order))
	}
	return b.String()
}

// PlainText concatenates the unstyled text of runs.
func PlainText(runs []types.RichText) string {
	var b strings.Builder
	for _, r := range runs {
		switch {
		case r.IsEquation():
			b.WriteString(r.Equation.Expression)
		case r.PlainText != "":
			b.WriteString(r.PlainText)
		case r.Text != nil:
			b.WriteString(r.Text.Content)
		}
	}
	return b.String()
}
