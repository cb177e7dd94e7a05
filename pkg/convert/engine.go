// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"log/slog"

	"github.com/pdiddy/notion2md/pkg/types"
)

// engine is the conversion algorithm shared by Converter and
// AsyncConverter. The two differ only in how list, override, and
// fetchAsset reach the outside world.
type engine struct {
	cfg        types.ConverterConfig
	list       listFunc
	override   func(ctx context.Context, block types.Block) (string, error)
	fetchAsset func(ctx context.Context, url string) ([]byte, error)
	log        *slog.Logger
}

// resolve fetches the children of blockID with the configured page cap.
func (e *engine) resolve(ctx context.Context, blockID string) ([]types.Block, error) {
	e.log.Debug("listing children", "block_id", blockID, "total_pages", e.cfg.TotalPages)
	blocks, err := collectChildren(ctx, e.list, blockID, e.cfg.TotalPages)
	if err != nil {
		return nil, err
	}
	e.log.Debug("listed children", "block_id", blockID, "count", len(blocks))
	return blocks, nil
}

// pageToDocuments runs the whole pipeline for one page.
func (e *engine) pageToDocuments(ctx context.Context, pageID string) (*types.DocumentMap, error) {
	blocks, err := e.resolve(ctx, pageID)
	if err != nil {
		return nil, err
	}
	nodes, err := e.blocksToMarkdown(ctx, blocks)
	if err != nil {
		return nil, err
	}
	return e.toMarkdownString(nodes, e.cfg.RootKey, 0), nil
}

// children carries what is known about a block's children while it is
// rendered. In tree mode they were fetched by the assembler; standalone
// rendering fetches them on demand.
type children struct {
	blocks   []types.Block
	resolved bool
	inTree   bool
}

// of returns the block's children, fetching them when needed. Blocks
// without children never trigger a fetch.
func (c *children) of(ctx context.Context, e *engine, b *types.Block) ([]types.Block, error) {
	if c.resolved || !b.HasChildren {
		return c.blocks, nil
	}
	blocks, err := e.resolve(ctx, b.ChildrenSource())
	if err != nil {
		return nil, err
	}
	c.blocks, c.resolved = blocks, true
	return blocks, nil
}

// standalone renders one block outside of a tree walk.
func (e *engine) standalone(ctx context.Context, b *types.Block) (string, error) {
	md, _, err := e.render(ctx, b, &children{})
	return md, err
}

// render applies the registered override for the block type and falls
// back to the default rule when there is none or it declines. custom
// reports that the override produced md.
func (e *engine) render(ctx context.Context, b *types.Block, kids *children) (md string, custom bool, err error) {
	if b.IsEmpty() {
		return "", false, nil
	}
	md, err = e.override(ctx, *b)
	if err != nil {
		return "", false, err
	}
	if md != "" {
		return md, true, nil
	}
	rule, ok := rules[b.Type]
	if !ok {
		e.log.Debug("no rule for block type", "type", b.Type, "block_id", b.ID)
		return "", false, nil
	}
	md, err = rule(ctx, e, b, kids)
	return md, false, err
}
