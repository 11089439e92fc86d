// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero submits paper records to a running Zotero desktop
// application through its local connector HTTP API, the same endpoint
// the browser extension uses. The library database is never touched
// directly; Zotero stays the sole writer.
package zotero

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zotlink/zotlink/pkg/types"
)

// connectorBase is the local connector endpoint. Declared as a var so
// tests can substitute an httptest server.
var connectorBase = "http://127.0.0.1:23119"

const defaultTimeout = 10 * time.Second

// Client talks to the Zotero connector API.
type Client struct {
	http       *http.Client
	collection string
}

// NewClient builds a connector client from config.
func NewClient(cfg types.ZoteroConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		collection: cfg.Collection,
	}
}

// SubmitResult reports the outcome of one save.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// attachment describes a file the connector should download and attach
// to the saved item.
type attachment struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

type saveItemsPayload struct {
	Items     []map[string]any `json:"items"`
	URI       string           `json:"uri"`
	SessionID string           `json:"sessionID"`
	Target    string           `json:"target,omitempty"`
}

// Ping checks that Zotero is running and its connector endpoint is
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, connectorBase+"/connector/ping", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("zotero not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zotero connector returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Submit saves one paper record to Zotero. A non-empty pdfURL is passed
// along as an attachment for Zotero to download itself; the connector
// API has no channel for pushing raw bytes. The collection argument
// overrides the configured default when non-empty.
func (c *Client) Submit(ctx context.Context, record types.PaperRecord, pdfURL, collection string) (SubmitResult, error) {
	item := record.Fields()
	if pdfURL != "" {
		item["attachments"] = []attachment{{
			Title:    "Full Text PDF",
			URL:      pdfURL,
			MimeType: "application/pdf",
		}}
	}

	if collection == "" {
		collection = c.collection
	}
	payload := saveItemsPayload{
		Items:     []map[string]any{item},
		URI:       record.URL,
		SessionID: newSessionID(),
		Target:    collection,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encoding save payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		connectorBase+"/connector/saveItems", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submitting to zotero: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return SubmitResult{Success: true, Message: "saved"}, nil
	default:
		return SubmitResult{
			Message: fmt.Sprintf("connector rejected save with HTTP %d", resp.StatusCode),
		}, fmt.Errorf("zotero connector returned HTTP %d", resp.StatusCode)
	}
}

// newSessionID generates the per-save session token the connector
// protocol expects.
func newSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
