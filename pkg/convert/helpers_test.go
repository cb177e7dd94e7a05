// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"strconv"
	"sync"

	"github.com/pdiddy/notion2md/pkg/types"
)

// fakeClient serves children from memory. Pages for one parent are
// chained with cursors "1", "2", and so on.
type fakeClient struct {
	mu    sync.Mutex
	pages map[string][]types.ChildrenPage
	calls map[string]int
	err   error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages: make(map[string][]types.ChildrenPage),
		calls: make(map[string]int),
	}
}

// add registers blocks as the single page of children of parent.
func (f *fakeClient) add(parent string, blocks ...types.Block) *fakeClient {
	return f.addPages(parent, blocks)
}

// addPages registers several pages of children for parent.
func (f *fakeClient) addPages(parent string, pages ...[]types.Block) *fakeClient {
	out := make([]types.ChildrenPage, len(pages))
	for i, blocks := range pages {
		out[i] = types.ChildrenPage{Object: "list", Results: blocks}
		if i < len(pages)-1 {
			next := strconv.Itoa(i + 1)
			out[i].NextCursor = &next
			out[i].HasMore = true
		}
	}
	f.pages[parent] = out
	return f
}

func (f *fakeClient) ListChildren(_ context.Context, blockID, cursor string) (types.ChildrenPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[blockID]++
	if f.err != nil {
		return types.ChildrenPage{}, f.err
	}
	idx := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return types.ChildrenPage{}, err
		}
		idx = n
	}
	pages := f.pages[blockID]
	if idx >= len(pages) {
		return types.ChildrenPage{Object: "list"}, nil
	}
	return pages[idx], nil
}

func (f *fakeClient) callsFor(blockID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[blockID]
}

func (f *fakeClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

func text(s string) []types.RichText {
	return []types.RichText{{Type: "text", PlainText: s, Text: &types.TextContent{Content: s}}}
}

func styled(s string, a types.Annotations) types.RichText {
	return types.RichText{Type: "text", PlainText: s, Text: &types.TextContent{Content: s}, Annotations: &a}
}

func paragraph(id, s string) types.Block {
	return types.Block{Object: "block", ID: id, Type: types.BlockParagraph, Paragraph: &types.TextBlock{RichText: text(s)}}
}

func heading1(id, s string) types.Block {
	return types.Block{ID: id, Type: types.BlockHeading1, Heading1: &types.HeadingBlock{RichText: text(s)}}
}

func bullet(id, s string) types.Block {
	return types.Block{ID: id, Type: types.BlockBulletedListItem, BulletedListItem: &types.TextBlock{RichText: text(s)}}
}

func numbered(id, s string) types.Block {
	return types.Block{ID: id, Type: types.BlockNumberedListItem, NumberedListItem: &types.NumberedListBlock{RichText: text(s)}}
}

func toggle(id, s string) types.Block {
	return types.Block{ID: id, Type: types.BlockToggle, Toggle: &types.TextBlock{RichText: text(s)}}
}

func quote(id, s string) types.Block {
	return types.Block{ID: id, Type: types.BlockQuote, Quote: &types.TextBlock{RichText: text(s)}}
}

func callout(id, s, emoji string) types.Block {
	return types.Block{ID: id, Type: types.BlockCallout, Callout: &types.CalloutBlock{
		RichText: text(s),
		Icon:     &types.Icon{Type: "emoji", Emoji: emoji},
	}}
}

func childPage(id, title string) types.Block {
	return types.Block{ID: id, Type: types.BlockChildPage, ChildPage: &types.TitleBlock{Title: title}}
}

func tableRow(cells ...string) types.Block {
	row := &types.TableRowBlock{}
	for _, c := range cells {
		row.Cells = append(row.Cells, text(c))
	}
	return types.Block{Type: types.BlockTableRow, TableRow: row}
}

func withChildren(b types.Block) types.Block {
	b.HasChildren = true
	return b
}

