// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Notion block trees into Markdown documents.
//
// A Converter resolves children through a Client, renders every block with
// a per-type rule (or a registered override), and assembles the rendered
// tree into a DocumentMap. Child pages either merge into the parent
// document or, with SeparateChildPage, become documents of their own.
// AsyncConverter runs the same algorithm with every remote call behind a
// Future.
package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/pdiddy/notion2md/internal/markdown"
	"github.com/pdiddy/notion2md/pkg/types"
)

// ErrNoClient is returned when a converter is constructed without a client.
var ErrNoClient = errors.New("notion client is not provided")

// Client lists the children of a block one page at a time. cursor is empty
// for the first page.
type Client interface {
	ListChildren(ctx context.Context, blockID, cursor string) (types.ChildrenPage, error)
}

// AsyncClient is the suspending form of Client.
type AsyncClient interface {
	ListChildrenAsync(ctx context.Context, blockID, cursor string) *Future[types.ChildrenPage]
}

// AssetFetcher downloads the bytes behind an asset URL. It is only used
// when ConvertImagesToBase64 is set.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Suspending adapts a Client so each listing runs on its own goroutine and
// is awaited by the caller.
func Suspending(c Client) AsyncClient {
	return suspendingClient{c}
}

type suspendingClient struct{ c Client }

func (s suspendingClient) ListChildrenAsync(ctx context.Context, blockID, cursor string) *Future[types.ChildrenPage] {
	return Go(func() (types.ChildrenPage, error) {
		return s.c.ListChildren(ctx, blockID, cursor)
	})
}

// Option configures a converter.
type Option func(*options)

type options struct {
	logger *slog.Logger
	assets AssetFetcher
}

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAssetFetcher sets the fetcher used to inline images.
func WithAssetFetcher(f AssetFetcher) Option {
	return func(o *options) { o.assets = f }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// normalizeConfig fills unset settings with their defaults. Plain boolean
// switches are taken as given.
func normalizeConfig(cfg types.ConverterConfig) types.ConverterConfig {
	if cfg.LinkHost == "" {
		cfg.LinkHost = types.DefaultLinkHost
	}
	if cfg.RootKey == "" {
		cfg.RootKey = types.DefaultRootKey
	}
	if cfg.ParseChildPages == nil {
		cfg.ParseChildPages = types.Bool(true)
	}
	cfg.AnnotationOrder = markdown.NormalizeOrder(cfg.AnnotationOrder)
	return cfg
}

// Converter renders blocks with direct, blocking calls to its Client.
type Converter struct {
	client       Client
	transformers *Registry[TransformerFunc]
	engine       *engine
}

// New creates a Converter. It returns ErrNoClient when client is nil.
func New(client Client, cfg types.ConverterConfig, opts ...Option) (*Converter, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	o := buildOptions(opts)
	c := &Converter{
		client:       client,
		transformers: NewRegistry[TransformerFunc](),
	}
	c.engine = &engine{
		cfg:      normalizeConfig(cfg),
		list:     client.ListChildren,
		override: c.runTransformer,
		log:      o.logger,
	}
	if o.assets != nil {
		c.engine.fetchAsset = o.assets.Fetch
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Converter) Config() types.ConverterConfig {
	return c.engine.cfg
}

// SetCustomTransformer registers fn for blockType, replacing any earlier
// override for that type.
func (c *Converter) SetCustomTransformer(blockType string, fn TransformerFunc) {
	c.transformers.Set(blockType, fn)
}

func (c *Converter) runTransformer(ctx context.Context, block types.Block) (string, error) {
	fn, ok := c.transformers.Get(block.Type)
	if !ok || fn == nil {
		return "", nil
	}
	return fn(ctx, block)
}

// PageToMarkdown returns the top-level blocks of a page.
func (c *Converter) PageToMarkdown(ctx context.Context, pageID string) ([]types.Block, error) {
	return c.engine.resolve(ctx, pageID)
}

// BlockToMarkdown renders a single block. Callouts, toggles, and tables
// fetch their own children; nothing is split into separate documents.
// A nil or typeless block renders as "".
func (c *Converter) BlockToMarkdown(ctx context.Context, block *types.Block) (string, error) {
	return c.engine.standalone(ctx, block)
}

// BlockListToMarkdown hydrates and renders blocks depth first.
func (c *Converter) BlockListToMarkdown(ctx context.Context, blocks []types.Block) ([]types.MarkdownNode, error) {
	return c.engine.blocksToMarkdown(ctx, blocks)
}

// ToMarkdownString assembles rendered nodes into documents under the
// configured root key.
func (c *Converter) ToMarkdownString(nodes []types.MarkdownNode) *types.DocumentMap {
	return c.engine.toMarkdownString(nodes, c.engine.cfg.RootKey, 0)
}

// ToMarkdownStringAt assembles nodes into the document named key, indenting
// inline content by nestingLevel tabs.
func (c *Converter) ToMarkdownStringAt(nodes []types.MarkdownNode, key string, nestingLevel int) *types.DocumentMap {
	return c.engine.toMarkdownString(nodes, key, nestingLevel)
}

// PageToDocuments fetches a page and returns its assembled documents.
func (c *Converter) PageToDocuments(ctx context.Context, pageID string) (*types.DocumentMap, error) {
	return c.engine.pageToDocuments(ctx, pageID)
}
