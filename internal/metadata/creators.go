// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"strings"

	"github.com/zotlink/zotlink/pkg/types"
)

// MaxCreators caps the author list. Degenerate author lists (consortium
// papers can carry hundreds of names) are truncated rather than passed
// downstream.
const MaxCreators = 15

// BuildCreators produces the ordered creator list for a raw result.
//
// When the result carries a structured creator list, that list is used
// as-is (truncated to MaxCreators) and the free-text Authors field is
// ignored entirely. Otherwise the Authors string is parsed with the
// name-splitting heuristic. Neither field present yields an empty list,
// which is a valid outcome.
func BuildCreators(raw types.ExtractionResult) []types.Creator {
	if len(raw.Creators) > 0 {
		if len(raw.Creators) > MaxCreators {
			return raw.Creators[:MaxCreators]
		}
		return raw.Creators
	}

	authors := strings.TrimSpace(raw.Authors)
	if authors == "" {
		return nil
	}

	var creators []types.Creator
	for _, name := range splitAuthorList(authors) {
		first, last, ok := SplitName(name)
		if !ok {
			continue
		}
		creators = append(creators, types.Creator{
			CreatorType: types.CreatorAuthor,
			FirstName:   first,
			LastName:    last,
		})
		if len(creators) == MaxCreators {
			break
		}
	}
	return creators
}

// splitAuthorList breaks a free-text author string into individual name
// tokens. Semicolons win when present; otherwise commas plus the words
// "and"/"&" separate names, so "A, B and C" yields three tokens. Empty
// tokens from trailing separators are discarded.
func splitAuthorList(s string) []string {
	var parts []string
	if strings.Contains(s, ";") {
		parts = strings.Split(s, ";")
	} else {
		replaced := strings.NewReplacer(" and ", ",", " & ", ",", "&", ",").Replace(s)
		parts = strings.Split(replaced, ",")
	}

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// SplitName splits one full name into first and last components using
// Western name order: the final word is the family name and everything
// before it is the given name. A single token becomes the family name
// with an empty given name (organizations, mononyms). This heuristic is
// known to mis-split multi-word family names; internationalized name
// parsing is deliberately out of scope.
func SplitName(full string) (first, last string, ok bool) {
	words := strings.Fields(full)
	switch len(words) {
	case 0:
		return "", "", false
	case 1:
		return "", words[0], true
	default:
		return strings.Join(words[:len(words)-1], " "), words[len(words)-1], true
	}
}
