// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strings"

	"github.com/pdiddy/notion2md/internal/markdown"
	"github.com/pdiddy/notion2md/pkg/types"
)

// rule renders the own fragment of one block type.
type rule func(ctx context.Context, e *engine, b *types.Block, kids *children) (string, error)

// rules is the default dispatch table. It is filled in init because the
// container rules recurse through engine.render, which reads the table.
var rules map[string]rule

func init() {
	rules = map[string]rule{
		types.BlockParagraph:        textRule(nil),
		types.BlockTemplate:         textRule(nil),
		types.BlockHeading1:         textRule(markdown.Heading1),
		types.BlockHeading2:         textRule(markdown.Heading2),
		types.BlockHeading3:         textRule(markdown.Heading3),
		types.BlockQuote:            textRule(markdown.Quote),
		types.BlockBulletedListItem: textRule(markdown.Bullet),
		types.BlockNumberedListItem: numberedRule,
		types.BlockToDo:             todoRule,
		types.BlockToggle:           toggleRule,
		types.BlockCallout:          calloutRule,
		types.BlockCode:             codeRule,
		types.BlockEquation:         equationRule,
		types.BlockDivider:          constRule(markdown.Divider()),
		types.BlockImage:            imageRule,
		types.BlockVideo:            fileRule,
		types.BlockFile:             fileRule,
		types.BlockPDF:              fileRule,
		types.BlockAudio:            fileRule,
		types.BlockBookmark:         urlRule,
		types.BlockEmbed:            urlRule,
		types.BlockLinkPreview:      urlRule,
		types.BlockLinkToPage:       linkToPageRule,
		types.BlockChildPage:        childPageRule,
		types.BlockChildDatabase:    childDatabaseRule,
		types.BlockTable:            tableRule,
		types.BlockTableRow:         constRule(""),
		types.BlockColumnList:       containerRule,
		types.BlockColumn:           containerRule,
		types.BlockSyncedBlock:      containerRule,
		types.BlockTableOfContents:  constRule(""),
		types.BlockBreadcrumb:       constRule(""),
		types.BlockUnsupported:      constRule(""),
	}
}

func (e *engine) richText(runs []types.RichText) string {
	return markdown.RenderRichText(runs, e.cfg.AnnotationOrder)
}

func constRule(md string) rule {
	return func(context.Context, *engine, *types.Block, *children) (string, error) {
		return md, nil
	}
}

func textRule(wrap func(string) string) rule {
	return func(_ context.Context, e *engine, b *types.Block, _ *children) (string, error) {
		text := e.richText(b.RichText())
		if wrap == nil {
			return text, nil
		}
		return wrap(text), nil
	}
}

func numberedRule(_ context.Context, e *engine, b *types.Block, _ *children) (string, error) {
	number := 1
	if b.NumberedListItem != nil && b.NumberedListItem.Number > 0 {
		number = b.NumberedListItem.Number
	}
	return markdown.NumberedItem(e.richText(b.RichText()), number), nil
}

func todoRule(_ context.Context, e *engine, b *types.Block, _ *children) (string, error) {
	checked := b.ToDo != nil && b.ToDo.Checked
	return markdown.Todo(e.richText(b.RichText()), checked), nil
}

func codeRule(_ context.Context, _ *engine, b *types.Block, _ *children) (string, error) {
	lang := ""
	if b.Code != nil {
		lang = b.Code.Language
	}
	return markdown.CodeBlock(markdown.PlainText(b.RichText()), lang), nil
}

func equationRule(_ context.Context, _ *engine, b *types.Block, _ *children) (string, error) {
	if b.Equation == nil {
		return "", nil
	}
	return markdown.Equation(b.Equation.Expression), nil
}

// renderNested renders a container's children one by one for standalone
// output, skipping empty fragments.
func (e *engine) renderNested(ctx context.Context, blocks []types.Block) (string, error) {
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		md, err := e.standalone(ctx, &blocks[i])
		if err != nil {
			return "", err
		}
		if md != "" {
			parts = append(parts, md)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// containerRule renders nothing of its own in tree mode, where the
// assembler flattens the children. Standalone it renders the children in
// order; synced copies read them from the origin block.
func containerRule(ctx context.Context, e *engine, b *types.Block, kids *children) (string, error) {
	if kids.inTree {
		return "", nil
	}
	blocks, err := kids.of(ctx, e, b)
	if err != nil {
		return "", err
	}
	return e.renderNested(ctx, blocks)
}

// toggleRule returns only the summary in tree mode; the document assembler
// wraps it around the rendered children.
func toggleRule(ctx context.Context, e *engine, b *types.Block, kids *children) (string, error) {
	summary := e.richText(b.RichText())
	if kids.inTree {
		return summary, nil
	}
	blocks, err := kids.of(ctx, e, b)
	if err != nil {
		return "", err
	}
	body, err := e.renderNested(ctx, blocks)
	if err != nil {
		return "", err
	}
	return markdown.Toggle(summary, body), nil
}

func calloutRule(ctx context.Context, e *engine, b *types.Block, kids *children) (string, error) {
	var icon *types.Icon
	if b.Callout != nil {
		icon = b.Callout.Icon
	}
	text := e.richText(b.RichText())
	if kids.inTree || !b.HasChildren {
		return markdown.Callout(text, icon), nil
	}
	blocks, err := kids.of(ctx, e, b)
	if err != nil {
		return "", err
	}
	body, err := e.renderNested(ctx, blocks)
	if err != nil {
		return "", err
	}
	if body != "" {
		text += "\n" + body
	}
	return markdown.Callout(text, icon), nil
}

func imageRule(ctx context.Context, e *engine, b *types.Block, _ *children) (string, error) {
	f := b.FilePayload()
	if f == nil {
		return "", nil
	}
	src := f.URL()
	alt := markdown.PlainText(f.Caption)
	if alt == "" {
		alt = f.FileName()
	}
	if e.cfg.ConvertImagesToBase64 && e.fetchAsset != nil && src != "" && !markdown.IsDataURL(src) {
		data, err := e.fetchAsset(ctx, src)
		if err != nil {
			return "", err
		}
		src = markdown.DataURL(src, data)
	}
	return markdown.Image(alt, src), nil
}

func fileRule(_ context.Context, _ *engine, b *types.Block, _ *children) (string, error) {
	f := b.FilePayload()
	if f == nil || f.URL() == "" {
		return "", nil
	}
	label := markdown.PlainText(f.Caption)
	if label == "" {
		label = f.Name
	}
	if label == "" {
		label = f.FileName()
	}
	return markdown.Link(label, f.URL()), nil
}

func urlRule(_ context.Context, _ *engine, b *types.Block, _ *children) (string, error) {
	u := b.URLPayload()
	if u == nil || u.URL == "" {
		return "", nil
	}
	label := markdown.PlainText(u.Caption)
	if label == "" {
		label = b.Type
	}
	return markdown.Link(label, u.URL), nil
}

func linkToPageRule(_ context.Context, e *engine, b *types.Block, _ *children) (string, error) {
	target := b.LinkToPage.Target()
	if target == "" {
		return "", nil
	}
	return markdown.Link(types.BlockLinkToPage, "https://"+e.cfg.LinkHost+"/"+target), nil
}

func childPageRule(_ context.Context, e *engine, b *types.Block, _ *children) (string, error) {
	if !e.cfg.ChildPagesEnabled() || b.ChildPage == nil {
		return "", nil
	}
	if e.cfg.SeparateChildPage {
		return b.ChildPage.Title, nil
	}
	return markdown.Heading2(b.ChildPage.Title), nil
}

func childDatabaseRule(_ context.Context, _ *engine, b *types.Block, _ *children) (string, error) {
	if b.ChildDatabase == nil {
		return "", nil
	}
	return markdown.Heading2(b.ChildDatabase.Title), nil
}

// tableRule renders table_row children as a GFM table with the first row
// as header. Runs within a cell are joined with a space.
func tableRule(ctx context.Context, e *engine, b *types.Block, kids *children) (string, error) {
	blocks, err := kids.of(ctx, e, b)
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(blocks))
	for _, child := range blocks {
		if child.Type != types.BlockTableRow || child.TableRow == nil {
			continue
		}
		row := make([]string, len(child.TableRow.Cells))
		for i, cell := range child.TableRow.Cells {
			parts := make([]string, len(cell))
			for j, run := range cell {
				parts[j] = markdown.RenderRun(run, e.cfg.AnnotationOrder)
			}
			row[i] = strings.Join(parts, " ")
		}
		rows = append(rows, row)
	}
	return markdown.Table(rows), nil
}
