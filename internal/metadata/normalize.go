// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata turns raw extraction results into canonical paper
// records. All functions are pure: no I/O, no shared state, safe for
// unlimited concurrent use.
package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/zotlink/zotlink/pkg/types"
)

// ErrExtraction marks a result that arrived with an extraction error.
// Normalize refuses to build a record from such a result: the error is
// passed through, never papered over with fabricated fields.
var ErrExtraction = errors.New("extraction failed")

// timeNow is swapped out in tests to pin AccessDate.
var timeNow = time.Now

// preprintRepositories maps known preprint-server names (lowercased) to
// the item type they imply. Matching is case-insensitive on the
// Repository field and substring-based on the URL host.
var preprintRepositories = map[string]bool{
	"biorxiv":  true,
	"medrxiv":  true,
	"chemrxiv": true,
	"psyarxiv": true,
	"socarxiv": true,
	"arxiv":    true,
}

// preprintHosts lists URL markers that imply a preprint source.
var preprintHosts = []string{
	"biorxiv.org",
	"medrxiv.org",
	"chemrxiv.org",
	"psyarxiv.com",
	"osf.io/preprints/socarxiv",
}

// Date patterns, tried in order. First match wins.
var (
	// "21 Sep 2025", "3 September 2025"
	dayMonthYearPattern = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,9})\.?\s+(\d{4})$`)

	// "2025-09-21", "2025/9/3" — already ISO-like; passed through
	// unchanged, separators and all.
	isoLikePattern = regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}`)

	// bare year
	yearPattern = regexp.MustCompile(`^\d{4}$`)

	// arXiv ID in an abs/pdf URL, for the archive identifier.
	arxivIDPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/([0-9]{4}\.[0-9]{4,5})`)
)

// monthNumbers maps 3-letter month abbreviations to two-digit months.
var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// Normalize maps a raw extraction result to a canonical paper record.
//
// A result carrying an error is rejected with ErrExtraction; normalizing
// a faulted result is undefined and must never be attempted. Title
// precedence is raw.Title, then fallbackTitle, then empty — an empty
// title is a valid unresolved state, and no placeholder text is ever
// written into the record.
func Normalize(raw types.ExtractionResult, fallbackTitle string) (types.PaperRecord, error) {
	if raw.Failed() {
		return types.PaperRecord{}, fmt.Errorf("%w: %s", ErrExtraction, raw.Error)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = strings.TrimSpace(fallbackTitle)
	}

	date, _ := ParseDate(raw.Date)

	rec := types.PaperRecord{
		ItemType:       inferItemType(raw),
		Title:          title,
		Creators:       BuildCreators(raw),
		AbstractNote:   strings.TrimSpace(raw.Abstract),
		URL:            raw.URL,
		Date:           date,
		DOI:            raw.DOI,
		Repository:     raw.Repository,
		LibraryCatalog: raw.Repository,
		ArchiveID:      archiveID(raw),
		AccessDate:     timeNow().Format("2006-01-02"),
	}
	return rec, nil
}

// archiveID derives the repository's own identifier where one is
// recoverable: "arXiv:<id>" for arXiv papers, the DOI for the Cold
// Spring Harbor servers (their DOI is the submission identifier).
func archiveID(raw types.ExtractionResult) string {
	if m := arxivIDPattern.FindStringSubmatch(strings.ToLower(raw.URL)); m != nil {
		return "arXiv:" + m[1]
	}
	switch strings.ToLower(strings.TrimSpace(raw.Repository)) {
	case "biorxiv", "medrxiv":
		return raw.DOI
	}
	return ""
}

// inferItemType decides between journalArticle and preprint. An arXiv
// marker in the URL forces preprint regardless of every other signal;
// after that the repository name and URL host are checked against the
// known preprint-server table, then the extractor's own hint.
func inferItemType(raw types.ExtractionResult) string {
	if strings.Contains(strings.ToLower(raw.URL), "arxiv.org") {
		return types.ItemTypePreprint
	}
	if preprintRepositories[strings.ToLower(strings.TrimSpace(raw.Repository))] {
		return types.ItemTypePreprint
	}
	lowerURL := strings.ToLower(raw.URL)
	for _, host := range preprintHosts {
		if strings.Contains(lowerURL, host) {
			return types.ItemTypePreprint
		}
	}
	if raw.ItemTypeHint == types.ItemTypePreprint {
		return types.ItemTypePreprint
	}
	return types.ItemTypeJournalArticle
}

// ParseDate converts a free-form date string to ISO "YYYY-MM-DD" where
// the format is recognized. Rules, first match wins:
//
//  1. "<day> <month-name> <year>" → YYYY-MM-DD.
//  2. "<year>[-/]<month>[-/]<day>" → passed through unchanged.
//  3. bare 4-digit year → "<year>-01-01".
//  4. anything else → returned unchanged with ok=false.
//
// A date is never fabricated and parse failure is never an error; the
// caller may log an unrecognized format as a soft warning.
func ParseDate(date string) (normalized string, ok bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", false
	}

	if m := dayMonthYearPattern.FindStringSubmatch(date); m != nil {
		day, monthName, year := m[1], m[2], m[3]
		month, known := monthNumbers[strings.ToLower(monthName[:3])]
		if known {
			if len(day) == 1 {
				day = "0" + day
			}
			return year + "-" + month + "-" + day, true
		}
		return date, false
	}

	if isoLikePattern.MatchString(date) {
		return date, true
	}

	if yearPattern.MatchString(date) {
		return date + "-01-01", true
	}

	return date, false
}
