// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notion is a small client for the parts of the Notion REST API
// the converter needs: listing block children and reading page titles.
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/notion2md/internal/httputil"
	"github.com/pdiddy/notion2md/pkg/types"
)

const (
	// DefaultBaseURL is the root of the public Notion API.
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	maxPageSize = 100
)

// ErrNoToken is returned by New when no integration token is configured.
var ErrNoToken = errors.New("notion token is not set")

// Client talks to the Notion API. It satisfies convert.Client.
type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	version    string
	userAgent  string
	pageSize   int
	maxRetries int
}

// New returns a Client for cfg. Empty fields take the package defaults.
func New(cfg types.NotionConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		version:    cfg.Version,
		userAgent:  cfg.UserAgent,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if c.pageSize <= 0 || c.pageSize > maxPageSize {
		c.pageSize = maxPageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c.http = &http.Client{Timeout: timeout}
	return c, nil
}

// ListChildren returns one page of the children of blockID. An empty
// cursor requests the first page.
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string) (types.ChildrenPage, error) {
	q := url.Values{"page_size": {strconv.Itoa(c.pageSize)}}
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}
	var page types.ChildrenPage
	if err := c.get(ctx, "/blocks/"+url.PathEscape(blockID)+"/children", q, &page); err != nil {
		return types.ChildrenPage{}, err
	}
	return page, nil
}

// Page is the subset of a Notion page object used for output metadata.
type Page struct {
	ID             string    `json:"id" yaml:"id"`
	URL            string    `json:"url" yaml:"url"`
	Title          string    `json:"title" yaml:"title"`
	CreatedTime    time.Time `json:"created_time" yaml:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time" yaml:"last_edited_time"`
	Archived       bool      `json:"archived" yaml:"archived,omitempty"`
}

type pageObject struct {
	ID             string                  `json:"id"`
	URL            string                  `json:"url"`
	CreatedTime    time.Time               `json:"created_time"`
	LastEditedTime time.Time               `json:"last_edited_time"`
	Archived       bool                    `json:"archived"`
	Properties     map[string]pageProperty `json:"properties"`
}

type pageProperty struct {
	Type  string           `json:"type"`
	Title []types.RichText `json:"title"`
}

// RetrievePage fetches page metadata. The title is the plain text of the
// page's title property.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (Page, error) {
	var obj pageObject
	if err := c.get(ctx, "/pages/"+url.PathEscape(pageID), nil, &obj); err != nil {
		return Page{}, err
	}
	p := Page{
		ID:             obj.ID,
		URL:            obj.URL,
		CreatedTime:    obj.CreatedTime,
		LastEditedTime: obj.LastEditedTime,
		Archived:       obj.Archived,
	}
	for _, prop := range obj.Properties {
		if prop.Type != "title" {
			continue
		}
		var b strings.Builder
		for _, r := range prop.Title {
			b.WriteString(r.PlainText)
		}
		p.Title = b.String()
		break
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("notion request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing notion response for %s: %w", path, err)
	}
	return nil
}

// APIError is an error response from the Notion API.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("notion API returned HTTP %d (%s): %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a Notion object_not_found error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Code == "object_not_found" || apiErr.Status == http.StatusNotFound)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(body, apiErr)
	apiErr.Status = resp.StatusCode
	return apiErr
}
