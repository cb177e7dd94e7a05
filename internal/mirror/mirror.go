// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mirror converts Notion pages and writes their documents to a
// directory of Markdown files with YAML frontmatter.
package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion2md/internal/notion"
	"github.com/pdiddy/notion2md/pkg/types"
)

const lockFile = ".notion2md.lock"

// Converter turns a page into its documents. *convert.Converter
// satisfies it.
type Converter interface {
	PageToDocuments(ctx context.Context, pageID string) (*types.DocumentMap, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, pageID string) (*types.DocumentMap, error)

// PageToDocuments calls f.
func (f ConverterFunc) PageToDocuments(ctx context.Context, pageID string) (*types.DocumentMap, error) {
	return f(ctx, pageID)
}

// PageSource looks up page metadata for file names and frontmatter.
// *notion.Client satisfies it.
type PageSource interface {
	RetrievePage(ctx context.Context, pageID string) (notion.Page, error)
}

// Status is the outcome of mirroring one page.
type Status int

const (
	StatusWritten Status = iota
	StatusSkipped
	StatusFailed
)

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Written int
	Skipped int
	Failed  int
}

// Total returns the number of pages processed.
func (r BatchResult) Total() int {
	return r.Written + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Mirror writes converted pages below cfg.OutputDir.
type Mirror struct {
	cfg     types.MirrorConfig
	rootKey string
	conv    Converter
	pages   PageSource
	now     func() time.Time
}

// New returns a Mirror. pages may be nil, in which case files are named
// after the page id.
func New(cfg types.MirrorConfig, rootKey string, conv Converter, pages PageSource) *Mirror {
	if rootKey == "" {
		rootKey = types.DefaultRootKey
	}
	return &Mirror{cfg: cfg, rootKey: rootKey, conv: conv, pages: pages, now: time.Now}
}

// ConvertBatch mirrors every page while holding the output directory
// lock, printing per-page status to w. The error is only set when the lock
// cannot be taken.
func (m *Mirror) ConvertBatch(ctx context.Context, pageIDs []string, w io.Writer) (BatchResult, error) {
	if err := os.MkdirAll(m.cfg.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory: %w", err)
	}
	lock := flock.New(filepath.Join(m.cfg.OutputDir, lockFile))
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return BatchResult{}, fmt.Errorf("locking %s: %w", m.cfg.OutputDir, err)
	}
	if !locked {
		return BatchResult{}, fmt.Errorf("output directory %s is locked by another run", m.cfg.OutputDir)
	}
	defer lock.Unlock()

	var result BatchResult
	for _, id := range pageIDs {
		switch m.ConvertPage(ctx, id, w) {
		case StatusWritten:
			result.Written++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d written, %d skipped, %d failed (total: %d)\n",
		result.Written, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// ConvertPage converts one page and writes its documents. A page is
// skipped when every file it would write already exists and Force is off.
func (m *Mirror) ConvertPage(ctx context.Context, pageID string, w io.Writer) Status {
	page := notion.Page{ID: pageID}
	if m.pages != nil {
		p, err := m.pages.RetrievePage(ctx, pageID)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", pageID, err)
			return StatusFailed
		}
		page = p
		if page.ID == "" {
			page.ID = pageID
		}
	}

	docs, err := m.conv.PageToDocuments(ctx, pageID)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", displayName(page), err)
		return StatusFailed
	}

	written, skipped, err := m.WriteDocuments(page, docs)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", displayName(page), err)
		return StatusFailed
	}
	if written == 0 && skipped > 0 {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", displayName(page))
		return StatusSkipped
	}
	fmt.Fprintf(w, "written: %s (%d documents)\n", displayName(page), written)
	return StatusWritten
}

// WriteDocuments writes every document of docs and reports how many files
// were written and skipped. The root document goes to <slug>.md and the
// others to <slug>/<document slug>.md. Keys that slug to the same name get
// a numeric suffix: notes.md, notes-2.md.
func (m *Mirror) WriteDocuments(page notion.Page, docs *types.DocumentMap) (written, skipped int, err error) {
	base := Slug(page.Title)
	if base == "" {
		base = Slug(page.ID)
	}
	convertedAt := m.now().UTC()
	names := map[string]bool{}

	for _, key := range docs.Keys() {
		body, _ := docs.Get(key)
		path := filepath.Join(m.cfg.OutputDir, base+".md")
		if key != m.rootKey {
			name := Slug(key)
			if name == "" {
				name = "untitled"
			}
			name = uniqueName(names, name)
			path = filepath.Join(m.cfg.OutputDir, base, name+".md")
		}

		if !m.cfg.Force {
			if _, statErr := os.Stat(path); statErr == nil {
				skipped++
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, skipped, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}

		content := body
		if m.cfg.Frontmatter {
			fm := frontmatter{
				PageID:         page.ID,
				Title:          page.Title,
				Document:       key,
				SourceURL:      page.URL,
				LastEditedTime: formatTime(page.LastEditedTime),
				ConvertedAt:    convertedAt.Format(time.RFC3339),
			}
			content, err = addFrontmatter(fm, body)
			if err != nil {
				return written, skipped, err
			}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return written, skipped, fmt.Errorf("writing %s: %w", path, err)
		}
		written++
	}
	return written, skipped, nil
}

type frontmatter struct {
	PageID         string `yaml:"notion_page_id"`
	Title          string `yaml:"title,omitempty"`
	Document       string `yaml:"document"`
	SourceURL      string `yaml:"source_url,omitempty"`
	LastEditedTime string `yaml:"last_edited_time,omitempty"`
	ConvertedAt    string `yaml:"converted_at"`
}

// addFrontmatter prepends a YAML frontmatter block to body.
func addFrontmatter(fm frontmatter, body string) (string, error) {
	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func displayName(p notion.Page) string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// uniqueName returns name, or name-N for the smallest N >= 2 not yet in
// used, and records the result.
func uniqueName(used map[string]bool, name string) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	used[candidate] = true
	return candidate
}

var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug turns a title into a file name: lower case, runs of anything but
// letters and digits collapsed to "-".
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
