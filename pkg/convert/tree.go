// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/notion2md/pkg/types"
)

// treeWalk hydrates one block list. pageKeys tracks the document keys
// handed out to child pages so two pages with the same title do not
// overwrite each other.
type treeWalk struct {
	e        *engine
	pageKeys map[string]bool
}

func (e *engine) blocksToMarkdown(ctx context.Context, blocks []types.Block) ([]types.MarkdownNode, error) {
	w := &treeWalk{e: e, pageKeys: map[string]bool{e.cfg.RootKey: true}}
	return w.walk(ctx, blocks)
}

// walk renders blocks in order. Children are resolved and rendered before
// their parent so container rules can use them.
func (w *treeWalk) walk(ctx context.Context, blocks []types.Block) ([]types.MarkdownNode, error) {
	nodes := make([]types.MarkdownNode, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		if b.Type == types.BlockUnsupported {
			continue
		}
		if b.Type == types.BlockChildPage && !w.e.cfg.ChildPagesEnabled() {
			continue
		}

		node := types.MarkdownNode{Type: b.Type, BlockID: b.ID}
		kids := &children{inTree: true}
		if b.HasChildren {
			resolved, err := w.e.resolve(ctx, b.ChildrenSource())
			if err != nil {
				return nil, err
			}
			kids.blocks, kids.resolved = resolved, true
			// Table rows are consumed by the table rule itself.
			if b.Type != types.BlockTable {
				node.Children, err = w.walk(ctx, resolved)
				if err != nil {
					return nil, err
				}
			}
		}

		md, custom, err := w.e.render(ctx, b, kids)
		if err != nil {
			return nil, err
		}
		node.Markdown, node.Custom = md, custom
		if b.Type == types.BlockChildPage {
			node.ParentKey = w.pageKey(b)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// pageKey names the document of a child page: its title, else its id,
// with the id appended when the title is already taken.
func (w *treeWalk) pageKey(b *types.Block) string {
	key := ""
	if b.ChildPage != nil {
		key = b.ChildPage.Title
	}
	if key == "" {
		key = b.ID
	}
	if w.pageKeys[key] && b.ID != "" && key != b.ID {
		key = key + " (" + b.ID + ")"
	}
	w.pageKeys[key] = true
	return key
}
