// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Item types recognized by the Zotero connector for this domain.
const (
	ItemTypeJournalArticle = "journalArticle"
	ItemTypePreprint       = "preprint"
)

// CreatorAuthor is the only creator role used for papers. Editor and
// translator roles do not occur in preprint/journal extraction.
const CreatorAuthor = "author"

// Creator is one author entry on a paper record.
type Creator struct {
	// CreatorType is always "author" in this domain.
	CreatorType string `json:"creatorType" yaml:"creator_type"`

	// FirstName may be empty for single-token or organization names.
	FirstName string `json:"firstName" yaml:"first_name"`

	// LastName is never empty for a valid creator.
	LastName string `json:"lastName" yaml:"last_name"`
}

// ExtractionResult is the raw output of one extractor for one URL. The
// field set varies by source: site extractors fill what their source
// exposes and leave the rest empty. A non-empty Error marks the whole
// result as failed; no other field may be trusted in that case.
//
// Results are immutable once returned from an extractor.
type ExtractionResult struct {
	// Title as found on the page or in the source API. May be empty.
	Title string `json:"title,omitempty"`

	// Authors is a free-text author list ("A, B and C" or "A; B; C").
	// Ignored when Creators is non-empty.
	Authors string `json:"authors,omitempty"`

	// Creators is a pre-structured author list. When non-empty it wins
	// over Authors.
	Creators []Creator `json:"creators,omitempty"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract,omitempty"`

	// Date is a free-form date string ("21 Sep 2025", "2024", ISO).
	Date string `json:"date,omitempty"`

	// DOI is the digital object identifier, when known.
	DOI string `json:"doi,omitempty"`

	// PDFURL is the direct PDF download URL, when known.
	PDFURL string `json:"pdf_url,omitempty"`

	// PDFBytes holds downloaded PDF content when the extractor fetched
	// it eagerly (bioRxiv/medRxiv direct extraction does this).
	PDFBytes []byte `json:"-"`

	// URL is the page URL the extraction was requested for.
	URL string `json:"url,omitempty"`

	// Repository names the source repository or site (e.g. "bioRxiv").
	Repository string `json:"repository,omitempty"`

	// ItemTypeHint carries the source's own idea of the item type.
	ItemTypeHint string `json:"item_type_hint,omitempty"`

	// Extractor identifies which extractor produced this result.
	Extractor string `json:"extractor,omitempty"`

	// Error is non-empty when extraction failed for this URL.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the result carries an extraction error.
func (r ExtractionResult) Failed() bool {
	return r.Error != ""
}

// PaperRecord is the canonical, normalized representation of a paper,
// ready for submission to the reference manager. It is derived fresh per
// submission attempt and never persisted by the extraction core.
type PaperRecord struct {
	// ItemType is "journalArticle" or "preprint".
	ItemType string `json:"itemType" yaml:"item_type"`

	// Title is never fabricated: empty means the title could not be
	// resolved, which is a valid state distinct from an extraction error.
	Title string `json:"title" yaml:"title"`

	// Creators lists authors in source order. Duplicates are passed
	// through untouched.
	Creators []Creator `json:"creators,omitempty" yaml:"creators,omitempty"`

	AbstractNote string `json:"abstractNote,omitempty" yaml:"abstract_note,omitempty"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty"`

	// Date is ISO-8601 "YYYY-MM-DD" when the source date was resolvable,
	// otherwise the original string unchanged.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	DOI            string `json:"DOI,omitempty" yaml:"doi,omitempty"`
	Repository     string `json:"repository,omitempty" yaml:"repository,omitempty"`
	LibraryCatalog string `json:"libraryCatalog,omitempty" yaml:"library_catalog,omitempty"`
	ArchiveID      string `json:"archiveID,omitempty" yaml:"archive_id,omitempty"`

	// AccessDate is the ISO date the record was built.
	AccessDate string `json:"accessDate,omitempty" yaml:"access_date,omitempty"`
}

// Fields returns the record as a field map with every empty value
// stripped. The submitter consumes this map, never the struct, so
// downstream sees omitted keys rather than nulls or empty strings.
func (r PaperRecord) Fields() map[string]any {
	fields := map[string]any{
		"itemType": r.ItemType,
	}
	put := func(key, val string) {
		if val != "" {
			fields[key] = val
		}
	}
	if len(r.Creators) > 0 {
		fields["creators"] = r.Creators
	}
	put("title", r.Title)
	put("abstractNote", r.AbstractNote)
	put("url", r.URL)
	put("date", r.Date)
	put("DOI", r.DOI)
	put("repository", r.Repository)
	put("libraryCatalog", r.LibraryCatalog)
	put("archiveID", r.ArchiveID)
	put("accessDate", r.AccessDate)
	return fields
}
