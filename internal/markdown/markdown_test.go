// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/notion2md/pkg/types"
)

func TestInlineStyles(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"bold", Bold, "**simple text**"},
		{"italic", Italic, "_simple text_"},
		{"strikethrough", Strikethrough, "~~simple text~~"},
		{"underline", Underline, "<u>simple text</u>"},
		{"inline code", InlineCode, "`simple text`"},
		{"heading 1", Heading1, "# simple text"},
		{"heading 2", Heading2, "## simple text"},
		{"heading 3", Heading3, "### simple text"},
		{"bullet", Bullet, "- simple text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn("simple text"))
		})
	}
}

func TestTodo(t *testing.T) {
	assert.Equal(t, "- [x] simple text", Todo("simple text", true))
	assert.Equal(t, "- [ ] simple text", Todo("simple text", false))
}

func TestEquations(t *testing.T) {
	assert.Equal(t, "$E = mc^2$", InlineEquation("E = mc^2"))
	assert.Equal(t, "$$\nE = mc^2\n$$", Equation("E = mc^2"))
}

func TestCodeBlock(t *testing.T) {
	assert.Equal(t, "```javascript\nsimple text\n```", CodeBlock("simple text", "javascript"))
	assert.Equal(t, "```text\nsimple text\n```", CodeBlock("simple text", "plain text"))
}

func TestLinkAndImage(t *testing.T) {
	assert.Equal(t, "[Example](https://example.com)", Link("Example", "https://example.com"))
	assert.Equal(t, "[With space](/path/with space)", Link("With space", "/path/with space"))
	assert.Equal(t, "![simple text](https://example.com/image)", Image("simple text", "https://example.com/image"))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "> Simple quote", Quote("Simple quote"))
	assert.Equal(t, "> Multi\n> line\n> quote", Quote("Multi\nline\nquote"))
	assert.Equal(t, "> a\n>\n> b", Quote("a\n\nb"))
}

func TestCallout(t *testing.T) {
	emoji := &types.Icon{Type: "emoji", Emoji: "😍"}
	tests := []struct {
		name string
		text string
		icon *types.Icon
		want string
	}{
		{"without icon", "Call out text content.", nil, "> Call out text content."},
		{"with emoji", "Call out text content.", emoji, "> 😍 Call out text content."},
		{"heading keeps hashes first", "# Heading", &types.Icon{Type: "emoji", Emoji: "ℹ️"}, "> # ℹ️ Heading"},
		{"multi line", "Line 1\nLine 2", nil, "> Line 1\n> Line 2"},
		{"external icon ignored", "text", &types.Icon{Type: "external", External: &types.FileURL{URL: "https://x/y.png"}}, "> text"},
		{"empty text with emoji", "", &types.Icon{Type: "emoji", Emoji: "x"}, "> x "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Callout(tt.text, tt.icon))
		})
	}
}

func TestToggle(t *testing.T) {
	assert.Equal(t, "content", Toggle("", "content"))
	assert.Equal(t, "", Toggle("", ""))
	assert.Equal(t, "<details><summary>title</summary>content</details>", Toggle("title", "content"))
}

func TestAddTabSpace(t *testing.T) {
	assert.Equal(t, "text", AddTabSpace("text", 0))
	assert.Equal(t, "\ttext", AddTabSpace("text", 1))
	assert.Equal(t, "\t\tline1\n\t\tline2", AddTabSpace("line1\nline2", 2))
	assert.Equal(t, "\tline1\n", AddTabSpace("line1\n", 1))
}

func TestDivider(t *testing.T) {
	assert.Equal(t, "---", Divider())
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aW1hZ2UgZGF0YQ==", DataURL("https://example.com/image.png", []byte("image data")))
	assert.Equal(t, "data:image/jpeg;base64,eA==", DataURL("https://example.com/a.jpg?X-Amz=1", []byte("x")))
	assert.Equal(t, "data:image/png;base64,eA==", DataURL("https://example.com/noext", []byte("x")))
	assert.True(t, IsDataURL("data:image/png;base64,abc123"))
	assert.False(t, IsDataURL("https://example.com/a.png"))
}

func TestTable(t *testing.T) {
	got := Table([][]string{
		{"number", "char"},
		{"1", "a"},
		{"2", "b"},
	})
	want := strings.Join([]string{
		"| number | char |",
		"| ------ | ---- |",
		"| 1      | a    |",
		"| 2      | b    |",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestTable_RaggedRowsAndEscaping(t *testing.T) {
	got := Table([][]string{
		{"a", "b|c"},
		{"line\nbreak"},
	})
	want := strings.Join([]string{
		"| a"+strings.Repeat(" ", 13)+"| b\\|c |",
		"| ------------- | ---- |",
		"| line<br>break |      |",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestTable_Empty(t *testing.T) {
	assert.Equal(t, "", Table(nil))
	assert.Equal(t, "", Table([][]string{{}}))
}

func TestTable_WideCharacters(t *testing.T) {
	got := Table([][]string{{"名前", "x"}, {"a", "y"}})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	// "名前" is four columns wide, so "a" is padded to four.
	assert.Equal(t, "| a    | y   |", lines[2])
}

func TestTable_ParsesAsGFM(t *testing.T) {
	src := []byte(Table([][]string{{"Header 1", "Header 2"}, {"Cell 1", "Cell 2"}}))
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	var tables, cells int
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			tables++
		case extast.KindTableCell:
			cells++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tables)
	assert.Equal(t, 4, cells)

	var out bytes.Buffer
	require.NoError(t, md.Convert(src, &out))
	assert.Contains(t, out.String(), "<th>Header 1</th>")
	assert.Contains(t, out.String(), "<td>Cell 2</td>")
}
