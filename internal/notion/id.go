// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// idSuffix matches an id at the end of a Notion URL slug, with or
// without dashes.
var idSuffix = regexp.MustCompile(`(?i)([0-9a-f]{32}|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// ParseID accepts a page or block id in any of the forms Notion shows
// (dashed, undashed, or embedded in a page URL) and returns it in the
// canonical dashed form.
func ParseID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if id, err := uuid.Parse(s); err == nil {
		return id.String(), nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid notion id %q", s)
	}
	// Peek views put the page id in the p parameter.
	candidates := []string{u.Query().Get("p"), path.Base(u.Path)}
	for _, c := range candidates {
		m := idSuffix.FindString(c)
		if m == "" {
			continue
		}
		if id, err := uuid.Parse(m); err == nil {
			return id.String(), nil
		}
	}
	return "", fmt.Errorf("no notion id in %q", s)
}
