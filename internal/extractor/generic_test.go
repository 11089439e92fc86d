// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zotlink/zotlink/pkg/types"
)

const citationMetaPage = `<!DOCTYPE html>
<html><head>
<meta name="citation_title" content="CRISPR Screening at Scale">
<meta name="citation_author" content="Doe, Jane A.">
<meta name="citation_author" content="John Smith">
<meta name="citation_publication_date" content="2024/03/15">
<meta name="citation_doi" content="10.1000/jax.2024.001">
<meta name="citation_pdf_url" content="https://journal.test/papers/001.pdf">
<meta name="citation_journal_title" content="Journal of Assorted Xenobiology">
<meta name="citation_abstract" content="We screen many things.">
</head><body><h1>ignored</h1></body></html>`

const openGraphPage = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="A Blog Post About Science">
<meta property="og:description" content="Musings on peer review.">
</head><body></body></html>`

const jsonLDPage = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{"@type": "ScholarlyArticle",
 "headline": "Structured Data Wins",
 "description": "An article described only by JSON-LD.",
 "datePublished": "2025-06-01",
 "author": [{"name": "Ada Lovelace"}, {"name": "Alan Turing"}]}
</script>
</head><body></body></html>`

const bareDOMPage = `<!DOCTYPE html>
<html><head><title>site chrome</title></head>
<body>
<h1>  The Only Heading  </h1>
<time datetime="2024-11-02">Nov 2, 2024</time>
</body></html>`

func pageFetcher(url, html string) *fakeFetcher {
	return &fakeFetcher{pages: map[string][]byte{url: []byte(html)}}
}

func TestGenericCitationMeta(t *testing.T) {
	url := "https://journal.test/papers/001"
	e := NewGeneric(pageFetcher(url, citationMetaPage))

	result := e.Extract(context.Background(), url)

	require.False(t, result.Failed(), "Extract failed: %s", result.Error)
	assert.Equal(t, "CRISPR Screening at Scale", result.Title)
	assert.Equal(t, "10.1000/jax.2024.001", result.DOI)
	assert.Equal(t, "2024/03/15", result.Date)
	assert.Equal(t, "https://journal.test/papers/001.pdf", result.PDFURL)
	assert.Equal(t, "We screen many things.", result.Abstract)
	assert.Equal(t, "Journal of Assorted Xenobiology", result.Repository)
	assert.Equal(t, types.ItemTypeJournalArticle, result.ItemTypeHint)

	require.Len(t, result.Creators, 2)
	assert.Equal(t, types.Creator{CreatorType: types.CreatorAuthor, FirstName: "Jane A.", LastName: "Doe"}, result.Creators[0])
	assert.Equal(t, types.Creator{CreatorType: types.CreatorAuthor, FirstName: "John", LastName: "Smith"}, result.Creators[1])
}

func TestGenericOpenGraphFallback(t *testing.T) {
	url := "https://blog.test/post"
	e := NewGeneric(pageFetcher(url, openGraphPage))

	result := e.Extract(context.Background(), url)

	require.False(t, result.Failed(), "Extract failed: %s", result.Error)
	assert.Equal(t, "A Blog Post About Science", result.Title)
	assert.Equal(t, "Musings on peer review.", result.Abstract)
	assert.Empty(t, result.ItemTypeHint)
}

func TestGenericJSONLD(t *testing.T) {
	url := "https://structured.test/article"
	e := NewGeneric(pageFetcher(url, jsonLDPage))

	result := e.Extract(context.Background(), url)

	require.False(t, result.Failed(), "Extract failed: %s", result.Error)
	assert.Equal(t, "Structured Data Wins", result.Title)
	assert.Equal(t, "An article described only by JSON-LD.", result.Abstract)
	assert.Equal(t, "2025-06-01", result.Date)
	assert.Equal(t, "Ada Lovelace; Alan Turing", result.Authors)
}

func TestGenericDOMHeuristics(t *testing.T) {
	url := "https://minimal.test/page"
	e := NewGeneric(pageFetcher(url, bareDOMPage))

	result := e.Extract(context.Background(), url)

	require.False(t, result.Failed(), "Extract failed: %s", result.Error)
	assert.Equal(t, "The Only Heading", result.Title)
	assert.Equal(t, "2024-11-02", result.Date)
}

func TestGenericNoMetadata(t *testing.T) {
	url := "https://empty.test/"
	e := NewGeneric(pageFetcher(url, "<html><body><p>nothing here</p></body></html>"))

	result := e.Extract(context.Background(), url)

	require.True(t, result.Failed())
	assert.Contains(t, result.Error, "no recognizable metadata")
}

func TestGenericFetchFailure(t *testing.T) {
	e := NewGeneric(&fakeFetcher{})

	result := e.Extract(context.Background(), "https://down.test/")

	require.True(t, result.Failed())
	assert.Contains(t, result.Error, "fetching page")
}

func TestGenericCanHandleEverything(t *testing.T) {
	e := NewGeneric(&fakeFetcher{})
	for _, url := range []string{"https://a.test", "not even a url", ""} {
		assert.True(t, e.CanHandle(url))
	}
}

func TestCitationAuthor(t *testing.T) {
	tests := []struct {
		in    string
		want  types.Creator
		wants bool
	}{
		{"Doe, Jane", types.Creator{CreatorType: types.CreatorAuthor, FirstName: "Jane", LastName: "Doe"}, true},
		{"Jane A. Doe", types.Creator{CreatorType: types.CreatorAuthor, FirstName: "Jane A.", LastName: "Doe"}, true},
		{"Plato", types.Creator{CreatorType: types.CreatorAuthor, LastName: "Plato"}, true},
		{"   ", types.Creator{}, false},

		// Malformed inverted forms must never yield an empty last name.
		{", Jane", types.Creator{CreatorType: types.CreatorAuthor, LastName: "Jane"}, true},
		{", Jane A. Doe", types.Creator{CreatorType: types.CreatorAuthor, FirstName: "Jane A.", LastName: "Doe"}, true},
		{",", types.Creator{}, false},
		{"Doe,", types.Creator{CreatorType: types.CreatorAuthor, LastName: "Doe"}, true},
	}
	for _, tt := range tests {
		got, ok := citationAuthor(tt.in)
		assert.Equal(t, tt.wants, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
