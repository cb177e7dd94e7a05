// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/notion2md/pkg/types"
)

// TransformerFunc overrides the default rendering of one block type. An
// empty result declines and the default rule is used; an error aborts the
// conversion.
type TransformerFunc func(ctx context.Context, block types.Block) (string, error)

// AsyncTransformerFunc is the suspending form of TransformerFunc. A nil
// future declines like an empty result.
type AsyncTransformerFunc func(ctx context.Context, block types.Block) *Future[string]

// Registry maps block types to override functions. Each converter owns
// its own registry; registering a type again replaces the earlier entry.
type Registry[F any] struct {
	fns map[string]F
}

// NewRegistry returns an empty registry.
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{fns: make(map[string]F)}
}

// Set registers fn for blockType, replacing any previous override.
func (r *Registry[F]) Set(blockType string, fn F) {
	r.fns[blockType] = fn
}

// Get returns the override for blockType, if any.
func (r *Registry[F]) Get(blockType string) (F, bool) {
	fn, ok := r.fns[blockType]
	return fn, ok
}

// Len returns the number of registered overrides.
func (r *Registry[F]) Len() int {
	return len(r.fns)
}
