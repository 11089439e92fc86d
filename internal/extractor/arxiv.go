// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/zotlink/zotlink/pkg/types"
)

// arxivAPIBase is the arXiv Atom API endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivURLPattern pulls the arXiv ID out of abs/pdf page URLs:
// "arxiv.org/abs/2301.07041", "arxiv.org/pdf/2301.07041v2".
var arxivURLPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/([0-9]{4}\.[0-9]{4,5}(?:v\d+)?)`)

// arXiv Atom feed structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// ArxivExtractor resolves arXiv page URLs through the arXiv Atom API.
// The API serves clean metadata without bot protection, so no page
// scraping is involved.
type ArxivExtractor struct {
	client    *http.Client
	userAgent string
}

// NewArxiv returns the arXiv API extractor.
func NewArxiv(client *http.Client, userAgent string) *ArxivExtractor {
	if client == nil {
		client = http.DefaultClient
	}
	return &ArxivExtractor{client: client, userAgent: userAgent}
}

func (e *ArxivExtractor) Name() string { return "arxiv-api" }

func (e *ArxivExtractor) CanHandle(url string) bool {
	return strings.Contains(strings.ToLower(url), "arxiv.org")
}

func (e *ArxivExtractor) Extract(ctx context.Context, url string) types.ExtractionResult {
	id := ParseArxivID(url)
	if id == "" {
		return types.ExtractionResult{
			URL:       url,
			Extractor: e.Name(),
			Error:     "no arXiv ID in URL",
		}
	}

	entry, err := e.queryAPI(ctx, id)
	if err != nil {
		return types.ExtractionResult{
			URL:       url,
			Extractor: e.Name(),
			Error:     fmt.Sprintf("arXiv API: %v", err),
		}
	}

	// The Atom feed folds titles and abstracts across lines.
	result := types.ExtractionResult{
		Title:        collapseWhitespace(entry.Title),
		Abstract:     collapseWhitespace(entry.Summary),
		URL:          "https://arxiv.org/abs/" + id,
		DOI:          entry.DOI,
		Date:         atomDate(entry.Published),
		Repository:   "arXiv",
		ItemTypeHint: types.ItemTypePreprint,
		PDFURL:       "https://arxiv.org/pdf/" + id,
		Extractor:    e.Name(),
	}

	// Author names arrive as plain full-name strings; hand them to the
	// creator builder as a semicolon list instead of guessing the split
	// here.
	names := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	result.Authors = strings.Join(names, "; ")

	return result
}

// ParseArxivID extracts the arXiv identifier from an abs or pdf URL.
// Returns the empty string when the URL carries no recognizable ID.
func ParseArxivID(url string) string {
	m := arxivURLPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(m[1], ".pdf")
}

func (e *ArxivExtractor) queryAPI(ctx context.Context, id string) (*arxivEntry, error) {
	apiURL := fmt.Sprintf("%s?id_list=%s&max_results=1", arxivAPIBase, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("no entry for ID %s", id)
	}
	return &feed.Entries[0], nil
}

// atomDate trims an RFC3339 timestamp to its date part; the normalizer
// passes ISO dates through unchanged.
func atomDate(published string) string {
	if len(published) >= 10 {
		return published[:10]
	}
	return published
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
