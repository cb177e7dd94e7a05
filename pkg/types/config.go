// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Annotation names accepted in ConverterConfig.AnnotationOrder.
const (
	AnnotationBold          = "bold"
	AnnotationItalic        = "italic"
	AnnotationStrikethrough = "strikethrough"
	AnnotationUnderline     = "underline"
	AnnotationCode          = "code"
)

// DefaultAnnotationOrder lists annotations from the outermost wrapper to
// the innermost.
var DefaultAnnotationOrder = []string{
	AnnotationBold,
	AnnotationItalic,
	AnnotationStrikethrough,
	AnnotationUnderline,
	AnnotationCode,
}

// DefaultLinkHost is the host used for link_to_page references.
const DefaultLinkHost = "www.notion.so"

// ConverterConfig holds the settings of a block-to-Markdown converter.
// The zero value is usable: unset fields take the documented defaults.
type ConverterConfig struct {
	// ParseChildPages includes child pages in the output. Nil means true.
	ParseChildPages *bool `json:"parse_child_pages,omitempty" yaml:"parse_child_pages,omitempty" mapstructure:"parse_child_pages"`

	// SeparateChildPage places each child page in its own document instead
	// of inlining it under a heading (default false).
	SeparateChildPage bool `json:"separate_child_page" yaml:"separate_child_page" mapstructure:"separate_child_page"`

	// ConvertImagesToBase64 inlines image bytes as data URLs (default false).
	ConvertImagesToBase64 bool `json:"convert_images_to_base64" yaml:"convert_images_to_base64" mapstructure:"convert_images_to_base64"`

	// TotalPages caps the number of listing pages fetched per block. Zero
	// follows cursors until the listing is exhausted.
	TotalPages int `json:"total_pages" yaml:"total_pages" mapstructure:"total_pages"`

	// LinkHost is the host of link_to_page URLs (default www.notion.so).
	LinkHost string `json:"link_host" yaml:"link_host" mapstructure:"link_host"`

	// AnnotationOrder lists annotation wrappers outermost first. Empty
	// uses DefaultAnnotationOrder.
	AnnotationOrder []string `json:"annotation_order,omitempty" yaml:"annotation_order,omitempty" mapstructure:"annotation_order"`

	// RootKey names the document of the converted page (default "parent").
	RootKey string `json:"root_key" yaml:"root_key" mapstructure:"root_key"`
}

// DefaultConverterConfig returns the documented defaults.
func DefaultConverterConfig() ConverterConfig {
	return ConverterConfig{
		ParseChildPages: Bool(true),
		LinkHost:        DefaultLinkHost,
		AnnotationOrder: append([]string(nil), DefaultAnnotationOrder...),
		RootKey:         DefaultRootKey,
	}
}

// ChildPagesEnabled reports whether child pages are converted.
func (c ConverterConfig) ChildPagesEnabled() bool {
	return c.ParseChildPages == nil || *c.ParseChildPages
}

// Bool returns a pointer to v, for optional switches such as
// ConverterConfig.ParseChildPages.
func Bool(v bool) *bool { return &v }

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "notion2md/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// NotionConfig holds settings for the Notion API client.
type NotionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Token is the integration secret. Usually loaded from .secrets/notion-token.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// BaseURL is the API root (default https://api.notion.com/v1).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Version is sent as the Notion-Version header (default 2022-06-28).
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// PageSize is the page_size query parameter for listings (max 100).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// CacheConfig holds settings for the children listing cache.
type CacheConfig struct {
	// Path is the SQLite database file. Empty disables caching.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached listing stays valid. Zero never expires.
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// MirrorConfig holds settings for writing documents to disk.
type MirrorConfig struct {
	// OutputDir receives one .md file per document.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Force overwrites existing files instead of skipping them.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	// Frontmatter prepends a YAML frontmatter block to every file.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`
}

// Config groups every section of the notion2md configuration file.
type Config struct {
	Converter ConverterConfig `json:"converter" yaml:"converter" mapstructure:"converter"`
	Notion    NotionConfig    `json:"notion" yaml:"notion" mapstructure:"notion"`
	Cache     CacheConfig     `json:"cache" yaml:"cache" mapstructure:"cache"`
	Mirror    MirrorConfig    `json:"mirror" yaml:"mirror" mapstructure:"mirror"`
}
