// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"

	"go.yaml.in/yaml/v3"
)

// DefaultRootKey is the document key used for the page being converted.
const DefaultRootKey = "parent"

// MarkdownNode is the rendered form of one block together with its
// rendered children. ParentKey is set on child pages and names the
// document their children belong to. Custom marks Markdown produced by a
// custom transformer, which the assembler uses as is.
type MarkdownNode struct {
	Type      string         `json:"type" yaml:"type"`
	BlockID   string         `json:"block_id,omitempty" yaml:"block_id,omitempty"`
	Markdown  string         `json:"parent" yaml:"parent"`
	Children  []MarkdownNode `json:"children" yaml:"children"`
	ParentKey string         `json:"parent_key,omitempty" yaml:"parent_key,omitempty"`
	Custom    bool           `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// DocumentMap maps document keys to Markdown text and remembers the order
// in which keys were first added. The zero value is an empty map.
type DocumentMap struct {
	keys []string
	docs map[string]string
}

// NewDocumentMap returns an empty DocumentMap.
func NewDocumentMap() *DocumentMap {
	return &DocumentMap{docs: make(map[string]string)}
}

// Len returns the number of documents.
func (d *DocumentMap) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns document keys in discovery order.
func (d *DocumentMap) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Has reports whether key is present.
func (d *DocumentMap) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.docs[key]
	return ok
}

// Get returns the text for key and whether it exists.
func (d *DocumentMap) Get(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	text, ok := d.docs[key]
	return text, ok
}

// Set stores text under key, replacing any previous text but keeping the
// key's original position.
func (d *DocumentMap) Set(key, text string) {
	if d.docs == nil {
		d.docs = make(map[string]string)
	}
	if _, ok := d.docs[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.docs[key] = text
}

// Append concatenates text onto the document at key, creating it if needed.
func (d *DocumentMap) Append(key, text string) {
	current, _ := d.Get(key)
	d.Set(key, current+text)
}

// Merge copies every document of other into d. Existing keys are replaced.
func (d *DocumentMap) Merge(other *DocumentMap) {
	for _, k := range other.Keys() {
		text, _ := other.Get(k)
		d.Set(k, text)
	}
}

// MarshalJSON encodes the map as a JSON object in discovery order.
func (d *DocumentMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.docs[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping in discovery order.
func (d *DocumentMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.Keys() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.docs[k], Style: yaml.LiteralStyle},
		)
	}
	return node, nil
}
