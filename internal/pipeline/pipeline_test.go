// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zotlink/zotlink/internal/extractor"
	"github.com/zotlink/zotlink/internal/history"
	"github.com/zotlink/zotlink/internal/zotero"
	"github.com/zotlink/zotlink/pkg/types"
)

type fixedExtractor struct {
	name   string
	host   string
	result types.ExtractionResult
}

func (f *fixedExtractor) Name() string { return f.name }

func (f *fixedExtractor) CanHandle(url string) bool { return strings.Contains(url, f.host) }
func (f *fixedExtractor) Extract(_ context.Context, url string) types.ExtractionResult {
	r := f.result
	r.URL = url
	return r
}

type fakeSubmitter struct {
	pingErr   error
	submitErr error

	gotRecord     types.PaperRecord
	gotPDFURL     string
	gotCollection string
	calls         int
}

func (f *fakeSubmitter) Ping(context.Context) error { return f.pingErr }

func (f *fakeSubmitter) Submit(_ context.Context, record types.PaperRecord, pdfURL, collection string) (zotero.SubmitResult, error) {
	f.calls++
	f.gotRecord = record
	f.gotPDFURL = pdfURL
	f.gotCollection = collection
	if f.submitErr != nil {
		return zotero.SubmitResult{Message: f.submitErr.Error()}, f.submitErr
	}
	return zotero.SubmitResult{Success: true, Message: "saved"}, nil
}

func goodResult() types.ExtractionResult {
	return types.ExtractionResult{
		Title:      "A Paper",
		Authors:    "Jane Doe; John Smith",
		Date:       "21 Sep 2025",
		DOI:        "10.1101/2025.09.21.617890",
		Repository: "bioRxiv",
		PDFURL:     "https://www.biorxiv.org/content/10.1101/2025.09.21.617890.full.pdf",
	}
}

func newTestPipeline(t *testing.T, result types.ExtractionResult, sub *fakeSubmitter) (*Pipeline, *history.Store) {
	t.Helper()
	registry := extractor.NewRegistry(nil,
		&fixedExtractor{name: "biorxiv-direct", host: "biorxiv.org", result: result})
	store, err := history.NewStore(types.HistoryConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(registry, sub, store, nil), store
}

func TestImportHappyPath(t *testing.T) {
	sub := &fakeSubmitter{}
	p, store := newTestPipeline(t, goodResult(), sub)
	url := "https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1"

	outcome, err := p.Import(context.Background(), url, Options{Collection: "COLL"})
	require.NoError(t, err)

	assert.True(t, outcome.Submitted)
	assert.Equal(t, "A Paper", outcome.Record.Title)
	assert.Equal(t, "2025-09-21", outcome.Record.Date)
	assert.Equal(t, types.ItemTypePreprint, outcome.Record.ItemType)
	assert.Len(t, outcome.Record.Creators, 2)

	assert.Equal(t, "COLL", sub.gotCollection)
	assert.Empty(t, sub.gotPDFURL, "PDF must not be attached unless asked for")

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.StatusSaved, entries[0].Status)
	assert.Equal(t, "A Paper", entries[0].Title)
	assert.Equal(t, "biorxiv-direct", entries[0].Extractor)
}

func TestImportAttachPDF(t *testing.T) {
	sub := &fakeSubmitter{}
	p, _ := newTestPipeline(t, goodResult(), sub)

	_, err := p.Import(context.Background(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1",
		Options{AttachPDF: true})
	require.NoError(t, err)

	assert.Equal(t, "https://www.biorxiv.org/content/10.1101/2025.09.21.617890.full.pdf", sub.gotPDFURL)
}

func TestImportZoteroUnreachable(t *testing.T) {
	sub := &fakeSubmitter{pingErr: fmt.Errorf("zotero not reachable: connection refused")}
	p, store := newTestPipeline(t, goodResult(), sub)

	_, err := p.Import(context.Background(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
	assert.Zero(t, sub.calls, "no save attempt when the ping fails")

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.StatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Message, "connection refused")
}

func TestImportExtractionFailureRecorded(t *testing.T) {
	sub := &fakeSubmitter{}
	failed := types.ExtractionResult{Error: "site changed its markup"}
	p, store := newTestPipeline(t, failed, sub)

	_, err := p.Import(context.Background(),
		"https://www.biorxiv.org/content/broken", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site changed its markup")
	assert.Zero(t, sub.calls, "failed extraction must not reach the submitter")

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.StatusFailed, entries[0].Status)
}

func TestImportSubmitFailureRecorded(t *testing.T) {
	sub := &fakeSubmitter{submitErr: fmt.Errorf("zotero connector returned HTTP 500")}
	p, store := newTestPipeline(t, goodResult(), sub)

	outcome, err := p.Import(context.Background(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1", Options{})
	require.Error(t, err)
	assert.False(t, outcome.Submitted)

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.StatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Message, "HTTP 500")
}

func TestImportNilHistoryStore(t *testing.T) {
	sub := &fakeSubmitter{}
	registry := extractor.NewRegistry(nil,
		&fixedExtractor{name: "biorxiv-direct", host: "biorxiv.org", result: goodResult()})
	p := New(registry, sub, nil, nil)

	_, err := p.Import(context.Background(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1", Options{})
	require.NoError(t, err)
}

func TestExtractFallbackTitle(t *testing.T) {
	result := goodResult()
	result.Title = ""
	sub := &fakeSubmitter{}
	p, _ := newTestPipeline(t, result, sub)

	_, record, err := p.Extract(context.Background(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1", "Title From Caller")
	require.NoError(t, err)
	assert.Equal(t, "Title From Caller", record.Title)
}

func TestExtractDoesNotSubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	p, _ := newTestPipeline(t, goodResult(), sub)

	_, _, err := p.Extract(context.Background(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1", "")
	require.NoError(t, err)
	assert.Zero(t, sub.calls)
}
