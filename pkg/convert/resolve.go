// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"

	"github.com/pdiddy/notion2md/pkg/types"
)

// listFunc fetches one page of a block's children starting at cursor.
type listFunc func(ctx context.Context, blockID, cursor string) (types.ChildrenPage, error)

// GetBlockChildren returns every child of blockID, following continuation
// cursors until the listing is exhausted or totalPages pages have been
// fetched (totalPages <= 0 means no cap). Client errors are returned as is.
// Numbered list items in the result are numbered.
func GetBlockChildren(ctx context.Context, client Client, blockID string, totalPages int) ([]types.Block, error) {
	return collectChildren(ctx, client.ListChildren, blockID, totalPages)
}

// GetBlockChildrenAsync is GetBlockChildren over a suspending client. Each
// page request is awaited before the next one is issued.
func GetBlockChildrenAsync(ctx context.Context, client AsyncClient, blockID string, totalPages int) *Future[[]types.Block] {
	return Go(func() ([]types.Block, error) {
		return collectChildren(ctx, awaitList(client), blockID, totalPages)
	})
}

func awaitList(client AsyncClient) listFunc {
	return func(ctx context.Context, blockID, cursor string) (types.ChildrenPage, error) {
		return client.ListChildrenAsync(ctx, blockID, cursor).Await()
	}
}

func collectChildren(ctx context.Context, list listFunc, blockID string, totalPages int) ([]types.Block, error) {
	var results []types.Block
	cursor := ""
	for pages := 1; ; pages++ {
		page, err := list(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		results = append(results, page.Results...)

		cursor = page.Cursor()
		if cursor == "" || (totalPages > 0 && pages >= totalPages) {
			break
		}
	}
	NumberListItems(results)
	return results, nil
}

// NumberListItems assigns 1-based numbers to numbered_list_item blocks in
// place. Numbering restarts after any block of another type.
func NumberListItems(blocks []types.Block) {
	n := 0
	for i := range blocks {
		b := &blocks[i]
		if b.Type != types.BlockNumberedListItem {
			n = 0
			continue
		}
		n++
		if b.NumberedListItem == nil {
			b.NumberedListItem = &types.NumberedListBlock{}
		}
		b.NumberedListItem.Number = n
	}
}
