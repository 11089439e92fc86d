// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zotlink/zotlink/internal/fetch"
	"github.com/zotlink/zotlink/pkg/types"
)

// GenericExtractor scrapes any publisher page for standard metadata. It
// reads, in order of reliability: Highwire citation_* meta tags (what
// Google Scholar indexes), Open Graph tags, schema.org JSON-LD, and
// finally bare DOM heuristics. It accepts every URL, so it must be
// registered as the fallback.
type GenericExtractor struct {
	fetcher fetch.Fetcher
}

// NewGeneric returns the fallback extractor.
func NewGeneric(f fetch.Fetcher) *GenericExtractor {
	return &GenericExtractor{fetcher: f}
}

func (e *GenericExtractor) Name() string { return "generic-scraper" }

// CanHandle always reports true; the generic extractor is the catch-all.
func (e *GenericExtractor) CanHandle(url string) bool { return true }

func (e *GenericExtractor) Extract(ctx context.Context, url string) types.ExtractionResult {
	page, err := e.fetcher.Page(ctx, url)
	if err != nil {
		return types.ExtractionResult{
			URL:       url,
			Extractor: e.Name(),
			Error:     fmt.Sprintf("fetching page: %v", err),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return types.ExtractionResult{
			URL:       url,
			Extractor: e.Name(),
			Error:     fmt.Sprintf("parsing page: %v", err),
		}
	}

	result := types.ExtractionResult{URL: url, Extractor: e.Name()}
	e.fromCitationMeta(doc, &result)
	e.fromOpenGraph(doc, &result)
	e.fromJSONLD(doc, &result)
	e.fromDOM(doc, &result)

	if result.Title == "" && len(result.Creators) == 0 && result.DOI == "" {
		result.Error = "no recognizable metadata on page"
	}
	return result
}

// fromCitationMeta reads Highwire citation_* meta tags. Author tags
// repeat once per author, usually in "Last, First" form.
func (e *GenericExtractor) fromCitationMeta(doc *goquery.Document, result *types.ExtractionResult) {
	meta := func(name string) string {
		sel := fmt.Sprintf(`meta[name=%q]`, name)
		content, _ := doc.Find(sel).First().Attr("content")
		return strings.TrimSpace(content)
	}

	result.Title = meta("citation_title")
	result.DOI = meta("citation_doi")
	result.Abstract = meta("citation_abstract")
	result.PDFURL = meta("citation_pdf_url")

	result.Date = meta("citation_publication_date")
	if result.Date == "" {
		result.Date = meta("citation_date")
	}
	if result.Date == "" {
		result.Date = meta("citation_online_date")
	}

	result.Repository = meta("citation_journal_title")
	if result.Repository != "" {
		result.ItemTypeHint = types.ItemTypeJournalArticle
	}

	doc.Find(`meta[name="citation_author"]`).Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if creator, ok := citationAuthor(content); ok {
			result.Creators = append(result.Creators, creator)
		}
	})
}

// citationAuthor parses one citation_author value. "Doe, Jane" is the
// common form; "Jane Doe" appears on sites that do not invert names. A
// creator always carries a non-empty last name; values that cannot
// yield one are dropped.
func citationAuthor(content string) (types.Creator, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return types.Creator{}, false
	}
	if last, first, found := strings.Cut(content, ","); found {
		last, first = strings.TrimSpace(last), strings.TrimSpace(first)
		if last != "" {
			return types.Creator{
				CreatorType: types.CreatorAuthor,
				FirstName:   first,
				LastName:    last,
			}, true
		}
		// Malformed inverted form (", Jane"); fall back to word order
		// on what remains.
		content = first
		if content == "" {
			return types.Creator{}, false
		}
	}

	words := strings.Fields(content)
	creator := types.Creator{CreatorType: types.CreatorAuthor, LastName: words[len(words)-1]}
	if len(words) > 1 {
		creator.FirstName = strings.Join(words[:len(words)-1], " ")
	}
	return creator, true
}

// fromOpenGraph fills gaps from og: properties and the description tag.
func (e *GenericExtractor) fromOpenGraph(doc *goquery.Document, result *types.ExtractionResult) {
	prop := func(name string) string {
		sel := fmt.Sprintf(`meta[property=%q]`, name)
		content, _ := doc.Find(sel).First().Attr("content")
		return strings.TrimSpace(content)
	}

	if result.Title == "" {
		result.Title = prop("og:title")
	}
	if result.Abstract == "" {
		result.Abstract = prop("og:description")
	}
	if result.Abstract == "" {
		content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
		result.Abstract = strings.TrimSpace(content)
	}
}

// ldArticle is the subset of schema.org ScholarlyArticle fields the
// extractor reads from JSON-LD blocks.
type ldArticle struct {
	Type          string          `json:"@type"`
	Headline      string          `json:"headline"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DatePublished string          `json:"datePublished"`
	Author        json.RawMessage `json:"author"`
}

type ldAuthor struct {
	Name string `json:"name"`
}

func (e *GenericExtractor) fromJSONLD(doc *goquery.Document, result *types.ExtractionResult) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var article ldArticle
		if err := json.Unmarshal([]byte(s.Text()), &article); err != nil {
			return true
		}
		switch article.Type {
		case "ScholarlyArticle", "Article", "NewsArticle":
		default:
			return true
		}

		if result.Title == "" {
			result.Title = strings.TrimSpace(article.Headline)
		}
		if result.Title == "" {
			result.Title = strings.TrimSpace(article.Name)
		}
		if result.Abstract == "" {
			result.Abstract = strings.TrimSpace(article.Description)
		}
		if result.Date == "" {
			result.Date = strings.TrimSpace(article.DatePublished)
		}
		if result.Authors == "" && len(result.Creators) == 0 {
			result.Authors = ldAuthorNames(article.Author)
		}
		return false
	})
}

// ldAuthorNames flattens the author field, which JSON-LD serves as
// either one object or an array of them, into a semicolon list.
func ldAuthorNames(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var many []ldAuthor
	if err := json.Unmarshal(raw, &many); err != nil {
		var one ldAuthor
		if err := json.Unmarshal(raw, &one); err != nil {
			return ""
		}
		many = []ldAuthor{one}
	}

	names := make([]string, 0, len(many))
	for _, a := range many {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, "; ")
}

// fromDOM is the last resort: the first h1 for a title and the first
// time element for a date.
func (e *GenericExtractor) fromDOM(doc *goquery.Document, result *types.ExtractionResult) {
	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if result.Date == "" {
		t := doc.Find("time").First()
		if dt, ok := t.Attr("datetime"); ok {
			result.Date = strings.TrimSpace(dt)
		} else {
			result.Date = strings.TrimSpace(t.Text())
		}
	}
}
