// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/notion2md/pkg/types"
)

func newConverter(t *testing.T, client Client, cfg types.ConverterConfig, opts ...Option) *Converter {
	t.Helper()
	c, err := New(client, cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_NilClient(t *testing.T) {
	_, err := New(nil, types.DefaultConverterConfig())
	assert.ErrorIs(t, err, ErrNoClient)
	assert.EqualError(t, err, "notion client is not provided")

	_, err = NewAsync(nil, types.DefaultConverterConfig())
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestNew_NormalizesConfig(t *testing.T) {
	c := newConverter(t, newFakeClient(), types.ConverterConfig{})
	cfg := c.Config()
	assert.Equal(t, types.DefaultLinkHost, cfg.LinkHost)
	assert.Equal(t, types.DefaultRootKey, cfg.RootKey)
	assert.Equal(t, types.DefaultAnnotationOrder, cfg.AnnotationOrder)
	assert.True(t, cfg.ChildPagesEnabled())
}

func TestBlockToMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		block types.Block
		want  string
	}{
		{"paragraph", paragraph("p", "Hello"), "Hello"},
		{"heading 1", heading1("h", "Title"), "# Title"},
		{"heading 2", types.Block{Type: types.BlockHeading2, Heading2: &types.HeadingBlock{RichText: text("Sub")}}, "## Sub"},
		{"heading 3", types.Block{Type: types.BlockHeading3, Heading3: &types.HeadingBlock{RichText: text("Small")}}, "### Small"},
		{"quote", quote("q", "Wise words"), "> Wise words"},
		{"template", types.Block{Type: types.BlockTemplate, Template: &types.TextBlock{RichText: text("tpl")}}, "tpl"},
		{"bulleted list item", bullet("b", "item"), "- item"},
		{"numbered list item without number", numbered("n", "first"), "1. first"},
		{"numbered list item with number", types.Block{Type: types.BlockNumberedListItem, NumberedListItem: &types.NumberedListBlock{RichText: text("third"), Number: 3}}, "3. third"},
		{"to do checked", types.Block{Type: types.BlockToDo, ToDo: &types.ToDoBlock{RichText: text("done"), Checked: true}}, "- [x] done"},
		{"to do unchecked", types.Block{Type: types.BlockToDo, ToDo: &types.ToDoBlock{RichText: text("open")}}, "- [ ] open"},
		{"divider", types.Block{Type: types.BlockDivider, Divider: &types.EmptyBlock{}}, "---"},
		{"equation", types.Block{Type: types.BlockEquation, Equation: &types.Equation{Expression: "E = mc^2"}}, "$$\nE = mc^2\n$$"},
		{"code", types.Block{Type: types.BlockCode, Code: &types.CodeBlock{RichText: text("console.log(1)"), Language: "javascript"}}, "```javascript\nconsole.log(1)\n```"},
		{"code plain text", types.Block{Type: types.BlockCode, Code: &types.CodeBlock{RichText: text("x"), Language: "plain text"}}, "```text\nx\n```"},
		{"callout without children", callout("c", "Note", "💡"), "> 💡 Note"},
		{"bookmark without caption", types.Block{Type: types.BlockBookmark, Bookmark: &types.URLBlock{URL: "https://example.com"}}, "[bookmark](https://example.com)"},
		{"embed with caption", types.Block{Type: types.BlockEmbed, Embed: &types.URLBlock{URL: "https://example.com/e", Caption: text("Embedded")}}, "[Embedded](https://example.com/e)"},
		{"link preview", types.Block{Type: types.BlockLinkPreview, LinkPreview: &types.URLBlock{URL: "https://github.com/x"}}, "[link_preview](https://github.com/x)"},
		{"link to page", types.Block{Type: types.BlockLinkToPage, LinkToPage: &types.LinkToPageBlock{Type: "page_id", PageID: "abc123"}}, "[link_to_page](https://www.notion.so/abc123)"},
		{"link to database", types.Block{Type: types.BlockLinkToPage, LinkToPage: &types.LinkToPageBlock{Type: "database_id", DatabaseID: "db1"}}, "[link_to_page](https://www.notion.so/db1)"},
		{"link to block", types.Block{Type: types.BlockLinkToPage, LinkToPage: &types.LinkToPageBlock{Type: "block_id", BlockID: "blk9"}}, "[link_to_page](https://www.notion.so/blk9)"},
		{"child database", types.Block{Type: types.BlockChildDatabase, ChildDatabase: &types.TitleBlock{Title: "Tasks"}}, "## Tasks"},
		{"child page inline", childPage("cp", "Sub Page"), "## Sub Page"},
		{
			"image with caption",
			types.Block{Type: types.BlockImage, Image: &types.FileBlock{Type: "external", External: &types.FileURL{URL: "https://example.com/a.png"}, Caption: text("A picture")}},
			"![A picture](https://example.com/a.png)",
		},
		{
			"hosted image without caption",
			types.Block{Type: types.BlockImage, Image: &types.FileBlock{Type: "file", File: &types.FileURL{URL: "https://s3.example.com/dir/photo.jpg?X-Amz=1"}}},
			"![photo.jpg](https://s3.example.com/dir/photo.jpg?X-Amz=1)",
		},
		{
			"video with caption",
			types.Block{Type: types.BlockVideo, Video: &types.FileBlock{Type: "external", External: &types.FileURL{URL: "https://youtu.be/x"}, Caption: text("Demo")}},
			"[Demo](https://youtu.be/x)",
		},
		{
			"file with name",
			types.Block{Type: types.BlockFile, File: &types.FileBlock{Type: "file", File: &types.FileURL{URL: "https://s3.example.com/f/abc"}, Name: "report.docx"}},
			"[report.docx](https://s3.example.com/f/abc)",
		},
		{
			"pdf without caption",
			types.Block{Type: types.BlockPDF, PDF: &types.FileBlock{Type: "external", External: &types.FileURL{URL: "https://example.com/docs/paper.pdf"}}},
			"[paper.pdf](https://example.com/docs/paper.pdf)",
		},
		{"unsupported", types.Block{Type: types.BlockUnsupported}, ""},
		{"unknown type", types.Block{Type: "ai_block", Unknown: []byte(`{}`)}, ""},
		{"empty block", types.Block{}, ""},
		{"table of contents", types.Block{Type: types.BlockTableOfContents, TableOfContents: &types.EmptyBlock{}}, ""},
	}
	c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.BlockToMarkdown(context.Background(), &tt.block)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockToMarkdown_Nil(t *testing.T) {
	c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
	got, err := c.BlockToMarkdown(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestBlockToMarkdown_RichText(t *testing.T) {
	block := types.Block{Type: types.BlockParagraph, Paragraph: &types.TextBlock{RichText: []types.RichText{
		styled("Bold", types.Annotations{Bold: true}),
		styled(" and ", types.Annotations{}),
		styled("both", types.Annotations{Bold: true, Italic: true}),
		{Type: "equation", PlainText: "x^2", Equation: &types.Equation{Expression: "x^2"}},
		{Type: "text", PlainText: " link", Href: "https://example.com", Text: &types.TextContent{Content: " link", Link: &types.Link{URL: "https://example.com"}}},
	}}}
	c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
	got, err := c.BlockToMarkdown(context.Background(), &block)
	require.NoError(t, err)
	assert.Equal(t, "**Bold** and **_both_**$x^2$[ link](https://example.com)", got)
}

func TestBlockToMarkdown_ChildPageModes(t *testing.T) {
	block := childPage("cp", "Sub Page")
	tests := []struct {
		name string
		cfg  func(*types.ConverterConfig)
		want string
	}{
		{"inline heading", func(*types.ConverterConfig) {}, "## Sub Page"},
		{"separate title", func(c *types.ConverterConfig) { c.SeparateChildPage = true }, "Sub Page"},
		{"parsing disabled", func(c *types.ConverterConfig) { c.ParseChildPages = types.Bool(false) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConverterConfig()
			tt.cfg(&cfg)
			c := newConverter(t, newFakeClient(), cfg)
			got, err := c.BlockToMarkdown(context.Background(), &block)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockToMarkdown_CalloutFetchesChildren(t *testing.T) {
	client := newFakeClient().add("c1", paragraph("p1", "First"), paragraph("p2", "Second"))
	c := newConverter(t, client, types.DefaultConverterConfig())
	block := withChildren(callout("c1", "Note", "💡"))

	got, err := c.BlockToMarkdown(context.Background(), &block)
	require.NoError(t, err)
	assert.Equal(t, "> 💡 Note\n> First\n> Second", got)
	assert.Equal(t, 1, client.callsFor("c1"))
}

func TestBlockToMarkdown_Toggle(t *testing.T) {
	client := newFakeClient().add("t1", paragraph("p1", "Hidden"))
	c := newConverter(t, client, types.DefaultConverterConfig())

	block := withChildren(toggle("t1", "Show more"))
	got, err := c.BlockToMarkdown(context.Background(), &block)
	require.NoError(t, err)
	assert.Equal(t, "<details><summary>Show more</summary>Hidden</details>", got)

	empty := toggle("t2", "Nothing inside")
	got, err = c.BlockToMarkdown(context.Background(), &empty)
	require.NoError(t, err)
	assert.Equal(t, "<details><summary>Nothing inside</summary></details>", got)
	assert.Equal(t, 0, client.callsFor("t2"))
}

func TestBlockToMarkdown_Table(t *testing.T) {
	client := newFakeClient().add("tbl",
		tableRow("number", "char"),
		tableRow("1", "a"),
		tableRow("2", "b"),
	)
	c := newConverter(t, client, types.DefaultConverterConfig())
	block := withChildren(types.Block{ID: "tbl", Type: types.BlockTable, Table: &types.TableBlock{TableWidth: 2, HasColumnHeader: true}})

	got, err := c.BlockToMarkdown(context.Background(), &block)
	require.NoError(t, err)
	assert.Equal(t, "| number | char |\n| ------ | ---- |\n| 1      | a    |\n| 2      | b    |", got)
}

func TestBlockToMarkdown_TableCellRunsJoined(t *testing.T) {
	row := types.Block{Type: types.BlockTableRow, TableRow: &types.TableRowBlock{Cells: [][]types.RichText{
		{styled("bold", types.Annotations{Bold: true}), styled("plain", types.Annotations{})},
		text("x"),
	}}}
	client := newFakeClient().add("tbl", row)
	c := newConverter(t, client, types.DefaultConverterConfig())
	block := withChildren(types.Block{ID: "tbl", Type: types.BlockTable, Table: &types.TableBlock{}})

	got, err := c.BlockToMarkdown(context.Background(), &block)
	require.NoError(t, err)
	assert.Equal(t, "| **bold** plain | x   |\n| -------------- | --- |", got)
}

func TestBlockToMarkdown_Containers(t *testing.T) {
	client := newFakeClient().
		add("cols", withChildren(types.Block{ID: "c1", Type: types.BlockColumn, Column: &types.EmptyBlock{}}),
			withChildren(types.Block{ID: "c2", Type: types.BlockColumn, Column: &types.EmptyBlock{}})).
		add("c1", paragraph("a", "Left")).
		add("c2", bullet("b", "Right")).
		add("origin", paragraph("p", "Shared"))
	c := newConverter(t, client, types.DefaultConverterConfig())

	columns := withChildren(types.Block{ID: "cols", Type: types.BlockColumnList, ColumnList: &types.EmptyBlock{}})
	got, err := c.BlockToMarkdown(context.Background(), &columns)
	require.NoError(t, err)
	assert.Equal(t, "Left\n- Right", got)
	assert.Equal(t, 1, client.callsFor("cols"))
	assert.Equal(t, 1, client.callsFor("c1"))
	assert.Equal(t, 1, client.callsFor("c2"))

	synced := withChildren(types.Block{ID: "copy", Type: types.BlockSyncedBlock, SyncedBlock: &types.SyncedBlock{
		SyncedFrom: &types.SyncedFrom{Type: "block_id", BlockID: "origin"},
	}})
	got, err = c.BlockToMarkdown(context.Background(), &synced)
	require.NoError(t, err)
	assert.Equal(t, "Shared", got)
	assert.Equal(t, 1, client.callsFor("origin"))
	assert.Equal(t, 0, client.callsFor("copy"))

	empty := types.Block{ID: "bare", Type: types.BlockColumnList, ColumnList: &types.EmptyBlock{}}
	got, err = c.BlockToMarkdown(context.Background(), &empty)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, 0, client.callsFor("bare"))
}

func TestBlockToMarkdown_NoChildrenNoFetch(t *testing.T) {
	client := newFakeClient()
	c := newConverter(t, client, types.DefaultConverterConfig())
	blocks := []types.Block{
		callout("c", "text", "💡"),
		toggle("t", "summary"),
		{ID: "tbl", Type: types.BlockTable, Table: &types.TableBlock{}},
	}
	for i := range blocks {
		_, err := c.BlockToMarkdown(context.Background(), &blocks[i])
		require.NoError(t, err)
	}
	assert.Equal(t, 0, client.totalCalls())
}

func TestBlockToMarkdown_ChildFetchError(t *testing.T) {
	boom := errors.New("boom")
	client := newFakeClient()
	client.err = boom
	c := newConverter(t, client, types.DefaultConverterConfig())
	block := withChildren(toggle("t1", "x"))

	_, err := c.BlockToMarkdown(context.Background(), &block)
	assert.ErrorIs(t, err, boom)
}

func TestImageBase64(t *testing.T) {
	external := types.Block{Type: types.BlockImage, Image: &types.FileBlock{
		Type: "external", External: &types.FileURL{URL: "https://example.com/image.png"},
	}}

	t.Run("inlines fetched bytes", func(t *testing.T) {
		fetcher := &fakeFetcher{data: []byte("image data")}
		cfg := types.DefaultConverterConfig()
		cfg.ConvertImagesToBase64 = true
		c := newConverter(t, newFakeClient(), cfg, WithAssetFetcher(fetcher))

		got, err := c.BlockToMarkdown(context.Background(), &external)
		require.NoError(t, err)
		assert.Equal(t, "![image.png](data:image/png;base64,aW1hZ2UgZGF0YQ==)", got)
		assert.Equal(t, []string{"https://example.com/image.png"}, fetcher.urls)
	})

	t.Run("data url kept", func(t *testing.T) {
		fetcher := &fakeFetcher{data: []byte("unused")}
		cfg := types.DefaultConverterConfig()
		cfg.ConvertImagesToBase64 = true
		c := newConverter(t, newFakeClient(), cfg, WithAssetFetcher(fetcher))
		block := types.Block{Type: types.BlockImage, Image: &types.FileBlock{
			Type: "external", External: &types.FileURL{URL: "data:image/png;base64,abc123"}, Caption: text("inline"),
		}}

		got, err := c.BlockToMarkdown(context.Background(), &block)
		require.NoError(t, err)
		assert.Equal(t, "![inline](data:image/png;base64,abc123)", got)
		assert.Empty(t, fetcher.urls)
	})

	t.Run("disabled leaves url", func(t *testing.T) {
		fetcher := &fakeFetcher{data: []byte("unused")}
		c := newConverter(t, newFakeClient(), types.DefaultConverterConfig(), WithAssetFetcher(fetcher))

		got, err := c.BlockToMarkdown(context.Background(), &external)
		require.NoError(t, err)
		assert.Equal(t, "![image.png](https://example.com/image.png)", got)
		assert.Empty(t, fetcher.urls)
	})

	t.Run("fetch error propagates", func(t *testing.T) {
		boom := errors.New("download failed")
		cfg := types.DefaultConverterConfig()
		cfg.ConvertImagesToBase64 = true
		c := newConverter(t, newFakeClient(), cfg, WithAssetFetcher(&fakeFetcher{err: boom}))

		_, err := c.BlockToMarkdown(context.Background(), &external)
		assert.ErrorIs(t, err, boom)
	})
}

func TestCustomTransformer(t *testing.T) {
	ctx := context.Background()
	block := paragraph("p1", "default text")

	t.Run("override wins", func(t *testing.T) {
		c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		var seen types.Block
		c.SetCustomTransformer(types.BlockParagraph, func(_ context.Context, b types.Block) (string, error) {
			seen = b
			return "custom", nil
		})
		got, err := c.BlockToMarkdown(ctx, &block)
		require.NoError(t, err)
		assert.Equal(t, "custom", got)
		assert.Equal(t, "p1", seen.ID)
	})

	t.Run("last registration wins", func(t *testing.T) {
		c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		c.SetCustomTransformer(types.BlockParagraph, func(context.Context, types.Block) (string, error) { return "first", nil })
		c.SetCustomTransformer(types.BlockParagraph, func(context.Context, types.Block) (string, error) { return "second", nil })
		got, err := c.BlockToMarkdown(ctx, &block)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("empty result falls back", func(t *testing.T) {
		c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		c.SetCustomTransformer(types.BlockParagraph, func(context.Context, types.Block) (string, error) { return "", nil })
		got, err := c.BlockToMarkdown(ctx, &block)
		require.NoError(t, err)
		assert.Equal(t, "default text", got)
	})

	t.Run("error propagates", func(t *testing.T) {
		boom := errors.New("transformer failed")
		c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		c.SetCustomTransformer(types.BlockParagraph, func(context.Context, types.Block) (string, error) { return "", boom })
		_, err := c.BlockToMarkdown(ctx, &block)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("registries are per converter", func(t *testing.T) {
		a := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		b := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		a.SetCustomTransformer(types.BlockParagraph, func(context.Context, types.Block) (string, error) { return "from a", nil })
		got, err := b.BlockToMarkdown(ctx, &block)
		require.NoError(t, err)
		assert.Equal(t, "default text", got)
	})

	t.Run("unknown type override", func(t *testing.T) {
		c := newConverter(t, newFakeClient(), types.DefaultConverterConfig())
		c.SetCustomTransformer("ai_block", func(context.Context, types.Block) (string, error) { return "AI", nil })
		unknown := types.Block{Type: "ai_block"}
		got, err := c.BlockToMarkdown(ctx, &unknown)
		require.NoError(t, err)
		assert.Equal(t, "AI", got)
	})
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newConverter(t, newFakeClient(), types.DefaultConverterConfig(), WithLogger(logger))

	unknown := types.Block{ID: "u1", Type: "ai_block"}
	_, err := c.BlockToMarkdown(context.Background(), &unknown)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no rule for block type")
	assert.Contains(t, buf.String(), "type=ai_block")
}

func TestPageToMarkdown_ReturnsBlocks(t *testing.T) {
	client := newFakeClient().add("page", heading1("h", "Title"), paragraph("p", "Body"))
	c := newConverter(t, client, types.DefaultConverterConfig())

	blocks, err := c.PageToMarkdown(context.Background(), "page")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, types.BlockHeading1, blocks[0].Type)
	assert.Equal(t, "p", blocks[1].ID)
}

func TestPageToMarkdown_ErrorUnwrapped(t *testing.T) {
	boom := errors.New("rate limited")
	client := newFakeClient()
	client.err = boom
	c := newConverter(t, client, types.DefaultConverterConfig())

	_, err := c.PageToMarkdown(context.Background(), "page")
	assert.Same(t, boom, err)

	_, err = c.PageToDocuments(context.Background(), "page")
	assert.Same(t, boom, err)
}
