// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/notion2md/pkg/types"
)

// AsyncConverter renders blocks with every remote call and every override
// behind a Future. Each operation runs on a single goroutine that awaits
// those futures in turn, so output is identical to Converter's.
type AsyncConverter struct {
	client       AsyncClient
	transformers *Registry[AsyncTransformerFunc]
	engine       *engine
}

// NewAsync creates an AsyncConverter. It returns ErrNoClient when client
// is nil.
func NewAsync(client AsyncClient, cfg types.ConverterConfig, opts ...Option) (*AsyncConverter, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	o := buildOptions(opts)
	c := &AsyncConverter{
		client:       client,
		transformers: NewRegistry[AsyncTransformerFunc](),
	}
	c.engine = &engine{
		cfg:      normalizeConfig(cfg),
		list:     awaitList(client),
		override: c.runTransformer,
		log:      o.logger,
	}
	if o.assets != nil {
		assets := o.assets
		c.engine.fetchAsset = func(ctx context.Context, url string) ([]byte, error) {
			return Go(func() ([]byte, error) { return assets.Fetch(ctx, url) }).Await()
		}
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *AsyncConverter) Config() types.ConverterConfig {
	return c.engine.cfg
}

// SetCustomTransformer registers fn for blockType, replacing any earlier
// override for that type.
func (c *AsyncConverter) SetCustomTransformer(blockType string, fn AsyncTransformerFunc) {
	c.transformers.Set(blockType, fn)
}

func (c *AsyncConverter) runTransformer(ctx context.Context, block types.Block) (string, error) {
	fn, ok := c.transformers.Get(block.Type)
	if !ok || fn == nil {
		return "", nil
	}
	f := fn(ctx, block)
	if f == nil {
		return "", nil
	}
	return f.Await()
}

// PageToMarkdown returns the top-level blocks of a page.
func (c *AsyncConverter) PageToMarkdown(ctx context.Context, pageID string) *Future[[]types.Block] {
	return Go(func() ([]types.Block, error) {
		return c.engine.resolve(ctx, pageID)
	})
}

// BlockToMarkdown renders a single block; see Converter.BlockToMarkdown.
func (c *AsyncConverter) BlockToMarkdown(ctx context.Context, block *types.Block) *Future[string] {
	return Go(func() (string, error) {
		return c.engine.standalone(ctx, block)
	})
}

// BlockListToMarkdown hydrates and renders blocks depth first.
func (c *AsyncConverter) BlockListToMarkdown(ctx context.Context, blocks []types.Block) *Future[[]types.MarkdownNode] {
	return Go(func() ([]types.MarkdownNode, error) {
		return c.engine.blocksToMarkdown(ctx, blocks)
	})
}

// PageToDocuments fetches a page and returns its assembled documents.
func (c *AsyncConverter) PageToDocuments(ctx context.Context, pageID string) *Future[*types.DocumentMap] {
	return Go(func() (*types.DocumentMap, error) {
		return c.engine.pageToDocuments(ctx, pageID)
	})
}

// ToMarkdownString assembles rendered nodes under the configured root key.
// Assembly makes no remote calls and completes immediately.
func (c *AsyncConverter) ToMarkdownString(nodes []types.MarkdownNode) *types.DocumentMap {
	return c.engine.toMarkdownString(nodes, c.engine.cfg.RootKey, 0)
}

// ToMarkdownStringAt assembles nodes into the document named key.
func (c *AsyncConverter) ToMarkdownStringAt(nodes []types.MarkdownNode, key string, nestingLevel int) *types.DocumentMap {
	return c.engine.toMarkdownString(nodes, key, nestingLevel)
}
