// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mirror

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion2md/pkg/types"
)

// Output formats accepted by Render.
const (
	FormatMarkdown = "md"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

// Render writes docs to w. Markdown output separates documents with an
// HTML comment naming each key; yaml and json emit the key to text
// mapping in discovery order.
func Render(w io.Writer, docs *types.DocumentMap, format string) error {
	switch format {
	case "", FormatMarkdown:
		for i, key := range docs.Keys() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			body, _ := docs.Get(key)
			fmt.Fprintf(w, "<!-- %s -->\n%s", key, body)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (want md, yaml, or json)", format)
}
