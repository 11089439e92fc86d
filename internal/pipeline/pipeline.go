// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires extraction, normalization, submission, and
// history into the import flow behind the CLI. Components arrive as
// constructor arguments; nothing here reaches for globals, so tests and
// alternative frontends can assemble their own pipelines.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zotlink/zotlink/internal/extractor"
	"github.com/zotlink/zotlink/internal/history"
	"github.com/zotlink/zotlink/internal/metadata"
	"github.com/zotlink/zotlink/internal/zotero"
	"github.com/zotlink/zotlink/pkg/types"
)

// Submitter saves a normalized record to the reference manager.
type Submitter interface {
	Ping(ctx context.Context) error
	Submit(ctx context.Context, record types.PaperRecord, pdfURL, collection string) (zotero.SubmitResult, error)
}

// Pipeline runs the URL-to-library import flow.
type Pipeline struct {
	registry  *extractor.Registry
	submitter Submitter
	store     *history.Store
	logger    *zap.Logger
}

// New assembles a pipeline. The store may be nil to disable history
// recording; the logger may be nil for silence.
func New(registry *extractor.Registry, submitter Submitter, store *history.Store, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		registry:  registry,
		submitter: submitter,
		store:     store,
		logger:    logger,
	}
}

// Options adjusts a single import.
type Options struct {
	// Collection overrides the submitter's default target collection.
	Collection string

	// FallbackTitle fills the record title when extraction found none.
	FallbackTitle string

	// AttachPDF asks the reference manager to download and attach the
	// paper PDF when the extractor found its URL.
	AttachPDF bool
}

// Outcome reports one completed import.
type Outcome struct {
	Raw       types.ExtractionResult
	Record    types.PaperRecord
	Submitted bool
	Message   string
}

// Extract runs extraction and normalization for a URL without touching
// the reference manager.
func (p *Pipeline) Extract(ctx context.Context, url, fallbackTitle string) (types.ExtractionResult, types.PaperRecord, error) {
	raw := p.registry.ExtractMetadata(ctx, url)
	p.logger.Debug("extraction finished",
		zap.String("url", url),
		zap.String("extractor", raw.Extractor),
		zap.Bool("failed", raw.Failed()))

	if raw.Failed() {
		return raw, types.PaperRecord{}, fmt.Errorf("extracting %s: %s", url, raw.Error)
	}

	record, err := metadata.Normalize(raw, fallbackTitle)
	if err != nil {
		return raw, types.PaperRecord{}, err
	}
	p.warnAmbiguities(url, raw, record)
	return raw, record, nil
}

// Import extracts, normalizes, and saves one URL, recording the attempt
// in history. The reference manager is pinged first so an unreachable
// Zotero fails fast instead of after extraction. A history write failure
// never fails the import.
func (p *Pipeline) Import(ctx context.Context, url string, opts Options) (Outcome, error) {
	if err := p.submitter.Ping(ctx); err != nil {
		p.record(ctx, history.Entry{
			URL:     url,
			Status:  history.StatusFailed,
			Message: err.Error(),
		})
		return Outcome{}, fmt.Errorf("checking zotero: %w", err)
	}

	raw, record, err := p.Extract(ctx, url, opts.FallbackTitle)
	if err != nil {
		p.record(ctx, history.Entry{
			URL:       url,
			Extractor: raw.Extractor,
			Status:    history.StatusFailed,
			Message:   err.Error(),
		})
		return Outcome{Raw: raw}, err
	}

	pdfURL := ""
	if opts.AttachPDF {
		pdfURL = raw.PDFURL
		if len(raw.PDFBytes) > 0 {
			// An extractor that fetched the PDF eagerly has already
			// proven the URL serves a real PDF, not a bot challenge.
			p.logger.Debug("pdf verified by extractor",
				zap.String("url", url),
				zap.Int("bytes", len(raw.PDFBytes)))
		}
	}

	result, err := p.submitter.Submit(ctx, record, pdfURL, opts.Collection)
	outcome := Outcome{
		Raw:       raw,
		Record:    record,
		Submitted: result.Success,
		Message:   result.Message,
	}
	entry := history.Entry{
		URL:       url,
		Title:     record.Title,
		ItemType:  record.ItemType,
		Extractor: raw.Extractor,
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Message = err.Error()
		p.record(ctx, entry)
		return outcome, fmt.Errorf("saving %s: %w", url, err)
	}

	entry.Status = history.StatusSaved
	p.record(ctx, entry)
	p.logger.Info("paper saved",
		zap.String("url", url),
		zap.String("title", record.Title),
		zap.String("itemType", record.ItemType))
	return outcome, nil
}

// warnAmbiguities logs the soft conditions that do not fail an import
// but deserve operator attention.
func (p *Pipeline) warnAmbiguities(url string, raw types.ExtractionResult, record types.PaperRecord) {
	if record.Title == "" {
		p.logger.Warn("record has no title; it will be saved without one",
			zap.String("url", url))
	}
	if record.Date != "" {
		if _, ok := metadata.ParseDate(raw.Date); !ok {
			p.logger.Warn("date not recognized, passed through unchanged",
				zap.String("url", url),
				zap.String("date", raw.Date))
		}
	}
	if len(record.Creators) == 0 {
		p.logger.Warn("no authors found", zap.String("url", url))
	}
}

func (p *Pipeline) record(ctx context.Context, entry history.Entry) {
	if p.store == nil {
		return
	}
	if _, err := p.store.Record(ctx, entry); err != nil {
		p.logger.Warn("history write failed", zap.Error(err))
	}
}
