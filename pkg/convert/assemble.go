// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"

	"github.com/pdiddy/notion2md/internal/markdown"
	"github.com/pdiddy/notion2md/pkg/types"
)

// compactTypes render without blank lines around them so consecutive
// items stay in one list or quote.
var compactTypes = map[string]bool{
	types.BlockToDo:             true,
	types.BlockBulletedListItem: true,
	types.BlockNumberedListItem: true,
	types.BlockQuote:            true,
}

// flatTypes contribute only their children, at the same nesting level.
var flatTypes = map[string]bool{
	types.BlockSyncedBlock: true,
	types.BlockColumnList:  true,
	types.BlockColumn:      true,
}

// quotedTypes keep their children inside the blockquote they open.
var quotedTypes = map[string]bool{
	types.BlockQuote:   true,
	types.BlockCallout: true,
}

// toMarkdownString assembles nodes into the document named key. Separate
// child pages add documents of their own; everything else is appended to
// key. An empty node list yields an empty map.
func (e *engine) toMarkdownString(nodes []types.MarkdownNode, key string, level int) *types.DocumentMap {
	docs := types.NewDocumentMap()
	if len(nodes) == 0 {
		return docs
	}
	docs.Set(key, "")
	for _, n := range nodes {
		switch n.Type {
		case types.BlockToggle:
			if n.Custom {
				e.appendNode(docs, n, key, level)
				continue
			}
			e.appendToggle(docs, n, key, level)
		case types.BlockChildPage:
			e.appendChildPage(docs, n, key, level)
		default:
			e.appendNode(docs, n, key, level)
		}
	}
	return docs
}

func (e *engine) appendNode(docs *types.DocumentMap, n types.MarkdownNode, key string, level int) {
	if n.Markdown != "" {
		appendFragment(docs, key, n.Markdown, level, compactTypes[n.Type])
	}
	if len(n.Children) == 0 {
		return
	}
	switch {
	case flatTypes[n.Type]:
		mergeInline(docs, e.toMarkdownString(n.Children, key, level), key)
	case quotedTypes[n.Type]:
		sub := e.toMarkdownString(n.Children, key, 0)
		body, _ := sub.Get(key)
		if body = strings.Trim(body, "\n"); body != "" {
			docs.Append(key, markdown.AddTabSpace(markdown.Quote(body), level)+"\n")
		}
		mergeOthers(docs, sub, key)
	default:
		mergeInline(docs, e.toMarkdownString(n.Children, key, level+1), key)
	}
}

func (e *engine) appendToggle(docs *types.DocumentMap, n types.MarkdownNode, key string, level int) {
	body := ""
	if len(n.Children) > 0 {
		sub := e.toMarkdownString(n.Children, key, 0)
		body, _ = sub.Get(key)
		mergeOthers(docs, sub, key)
	}
	if md := markdown.Toggle(n.Markdown, body); md != "" {
		appendFragment(docs, key, md, level, false)
	}
}

// appendChildPage writes the page reference into key. Inline pages append
// their content after the heading; separate pages move it to a document
// named by the page key.
func (e *engine) appendChildPage(docs *types.DocumentMap, n types.MarkdownNode, key string, level int) {
	if n.Markdown != "" {
		appendFragment(docs, key, n.Markdown, level, false)
	}
	pageKey := childPageKey(n)
	if e.cfg.SeparateChildPage {
		sub := e.toMarkdownString(n.Children, pageKey, 0)
		if !sub.Has(pageKey) {
			sub.Set(pageKey, "")
		}
		docs.Merge(sub)
		return
	}
	if len(n.Children) == 0 {
		return
	}
	sub := e.toMarkdownString(n.Children, pageKey, level)
	body, _ := sub.Get(pageKey)
	docs.Append(key, body)
	mergeOthers(docs, sub, pageKey)
}

func childPageKey(n types.MarkdownNode) string {
	switch {
	case n.ParentKey != "":
		return n.ParentKey
	case n.BlockID != "":
		return n.BlockID
	}
	return strings.TrimPrefix(n.Markdown, "## ")
}

// appendFragment adds one block fragment, padded by blank lines unless
// compact.
func appendFragment(docs *types.DocumentMap, key, md string, level int, compact bool) {
	md = markdown.AddTabSpace(md, level)
	if compact {
		docs.Append(key, md+"\n")
		return
	}
	docs.Append(key, "\n"+md+"\n")
}

// mergeInline appends sub's key document to docs and adopts the rest.
func mergeInline(docs, sub *types.DocumentMap, key string) {
	body, _ := sub.Get(key)
	docs.Append(key, body)
	mergeOthers(docs, sub, key)
}

// mergeOthers copies every document of sub except skip into docs.
func mergeOthers(docs, sub *types.DocumentMap, skip string) {
	for _, k := range sub.Keys() {
		if k == skip {
			continue
		}
		text, _ := sub.Get(k)
		docs.Set(k, text)
	}
}
