// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor routes URLs to site-specific metadata extractors.
// Each extractor knows one site or site family; the Registry picks the
// first one whose CanHandle accepts the URL and lets it own the
// extraction. Host checks are disjoint across registered extractors, so
// ownership is unambiguous by construction.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/zotlink/zotlink/pkg/types"
)

// ErrNoExtractor reports a registry with no fallback receiving a URL no
// site extractor claims. This is a wiring defect, not a runtime
// condition; a correctly assembled registry always has a fallback.
var ErrNoExtractor = errors.New("no extractor matched and no fallback registered")

// Extractor retrieves metadata from one site or site family. Each
// implementation handles a disjoint set of hosts per the Strategy
// pattern.
type Extractor interface {
	// Name identifies the extractor in results and logs.
	Name() string

	// CanHandle reports whether this extractor owns the URL.
	CanHandle(url string) bool

	// Extract produces a raw metadata result for the URL. Failure is
	// reported through the result's Error field, not a Go error, so a
	// faulted extraction is an ordinary value the caller can record.
	Extract(ctx context.Context, url string) types.ExtractionResult
}

// Registry dispatches URLs to an ordered extractor list, most specific
// first, with one generic fallback that accepts anything. The list is
// fixed at construction and safe to share across concurrent requests.
type Registry struct {
	extractors []Extractor
	fallback   Extractor
}

// NewRegistry builds a dispatcher. Extractors are consulted in the
// order given; fallback runs when none of them claims the URL.
func NewRegistry(fallback Extractor, extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors, fallback: fallback}
}

// ExtractMetadata routes the URL to exactly one extractor and returns
// its result. Once an extractor claims a URL it owns it: a failure does
// not fall through to the next candidate, which keeps ownership
// predictable when a site changes its markup. A missing fallback is a
// registration defect and is reported as a failed result rather than a
// panic.
func (r *Registry) ExtractMetadata(ctx context.Context, url string) types.ExtractionResult {
	for _, e := range r.extractors {
		if e.CanHandle(url) {
			return safeExtract(ctx, e, url)
		}
	}
	if r.fallback == nil {
		return types.ExtractionResult{
			URL:   url,
			Error: ErrNoExtractor.Error(),
		}
	}
	return safeExtract(ctx, r.fallback, url)
}

// Match returns the extractor that would own the URL, for diagnostics.
func (r *Registry) Match(url string) Extractor {
	for _, e := range r.extractors {
		if e.CanHandle(url) {
			return e
		}
	}
	return r.fallback
}

// Extractors returns the registered site extractors in dispatch order,
// excluding the fallback.
func (r *Registry) Extractors() []Extractor {
	return r.extractors
}

// safeExtract invokes an extractor, converting a panic into a failed
// result so one broken site parser cannot take down the process.
func safeExtract(ctx context.Context, e Extractor, url string) (result types.ExtractionResult) {
	defer func() {
		if p := recover(); p != nil {
			result = types.ExtractionResult{
				URL:       url,
				Extractor: e.Name(),
				Error:     fmt.Sprintf("extractor %s panicked: %v", e.Name(), p),
			}
		}
	}()

	result = e.Extract(ctx, url)
	if result.Extractor == "" {
		result.Extractor = e.Name()
	}
	if result.URL == "" {
		result.URL = url
	}
	return result
}
