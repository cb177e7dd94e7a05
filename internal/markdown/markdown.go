// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown provides the Markdown building blocks used by the block
// converter: inline styles, block-level wrappers, tables, and rich text
// rendering.
package markdown

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/pdiddy/notion2md/pkg/types"
)

// Bold wraps text in strong emphasis.
func Bold(text string) string { return "**" + text + "**" }

// Italic wraps text in emphasis.
func Italic(text string) string { return "_" + text + "_" }

// Strikethrough wraps text in GFM strikethrough markers.
func Strikethrough(text string) string { return "~~" + text + "~~" }

// Underline wraps text in an HTML underline element; Markdown has none.
func Underline(text string) string { return "<u>" + text + "</u>" }

// InlineCode wraps text in backticks.
func InlineCode(text string) string { return "`" + text + "`" }

// InlineEquation renders inline math.
func InlineEquation(expr string) string { return "$" + expr + "$" }

// Equation renders display math on its own lines.
func Equation(expr string) string { return "$$\n" + expr + "\n$$" }

// CodeBlock renders a fenced code block. Notion's "plain text" language
// maps to "text".
func CodeBlock(text, language string) string {
	if language == "plain text" {
		language = "text"
	}
	return "```" + language + "\n" + text + "\n```"
}

// Heading1 renders a level one heading.
func Heading1(text string) string { return "# " + text }

// Heading2 renders a level two heading.
func Heading2(text string) string { return "## " + text }

// Heading3 renders a level three heading.
func Heading3(text string) string { return "### " + text }

// Bullet renders a bulleted list item.
func Bullet(text string) string { return "- " + text }

// NumberedItem renders a numbered list item.
func NumberedItem(text string, number int) string {
	return fmt.Sprintf("%d. %s", number, text)
}

// Todo renders a task list item.
func Todo(text string, checked bool) string {
	if checked {
		return "- [x] " + text
	}
	return "- [ ] " + text
}

// Divider renders a thematic break.
func Divider() string { return "---" }

// Link renders an inline link.
func Link(text, href string) string { return "[" + text + "](" + href + ")" }

// Image renders an inline image.
func Image(alt, src string) string { return "![" + alt + "](" + src + ")" }

// Quote prefixes every line of text with a blockquote marker.
func Quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

var headingPrefix = regexp.MustCompile(`^(#{1,6})\s+(.+)`)

// Callout renders a callout as a blockquote led by its emoji icon. When the
// first line is a heading the icon goes after the hashes.
func Callout(text string, icon *types.Icon) string {
	emoji := ""
	if icon != nil && icon.Type == "emoji" && icon.Emoji != "" {
		emoji = icon.Emoji + " "
	}
	lines := strings.Split(text, "\n")
	if m := headingPrefix.FindStringSubmatch(lines[0]); m != nil {
		lines[0] = m[1] + " " + emoji + m[2]
	} else {
		lines[0] = emoji + lines[0]
	}
	return Quote(strings.Join(lines, "\n"))
}

// Toggle renders a collapsible section. Without a summary only the content
// is returned.
func Toggle(summary, content string) string {
	if summary == "" {
		return content
	}
	return "<details><summary>" + summary + "</summary>" + content + "</details>"
}

// AddTabSpace indents every line of text by n tabs. A trailing newline is
// kept without indentation.
func AddTabSpace(text string, n int) string {
	if n <= 0 || text == "" {
		return text
	}
	tabs := strings.Repeat("\t", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		lines[i] = tabs + line
	}
	return strings.Join(lines, "\n")
}

// IsDataURL reports whether src already embeds its bytes.
func IsDataURL(src string) bool {
	return strings.HasPrefix(src, "data:")
}

// DataURL encodes data as a base64 data URL. The media type is guessed from
// the extension of src and falls back to image/png.
func DataURL(src string, data []byte) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	mediaType := mime.TypeByExtension(path.Ext(p))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if mediaType == "" {
		mediaType = "image/png"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
