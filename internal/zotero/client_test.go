// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zotlink/zotlink/pkg/types"
)

func withConnector(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	saved := connectorBase
	connectorBase = server.URL
	t.Cleanup(func() { connectorBase = saved })
}

func testRecord() types.PaperRecord {
	return types.PaperRecord{
		ItemType: types.ItemTypePreprint,
		Title:    "A Paper",
		Creators: []types.Creator{
			{CreatorType: types.CreatorAuthor, FirstName: "Jane", LastName: "Doe"},
		},
		URL:        "https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1",
		Date:       "2025-09-21",
		DOI:        "10.1101/2025.09.21.617890",
		Repository: "bioRxiv",
	}
}

func TestPing(t *testing.T) {
	withConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/connector/ping", r.URL.Path)
		w.Write([]byte("Zotero is running"))
	})

	client := NewClient(types.ZoteroConfig{})
	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingZoteroDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	saved := connectorBase
	connectorBase = server.URL
	server.Close() // connection refused from here on
	t.Cleanup(func() { connectorBase = saved })

	client := NewClient(types.ZoteroConfig{})
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestSubmit(t *testing.T) {
	var gotPath string
	var payload saveItemsPayload
	withConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusCreated)
	})

	client := NewClient(types.ZoteroConfig{Collection: "COLL"})
	result, err := client.Submit(context.Background(), testRecord(),
		"https://www.biorxiv.org/content/10.1101/2025.09.21.617890.full.pdf", "")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "/connector/saveItems", gotPath)
	assert.Equal(t, "COLL", payload.Target)
	assert.NotEmpty(t, payload.SessionID)
	assert.Equal(t, "https://www.biorxiv.org/content/10.1101/2025.09.21.617890v1", payload.URI)

	require.Len(t, payload.Items, 1)
	item := payload.Items[0]
	assert.Equal(t, "preprint", item["itemType"])
	assert.Equal(t, "A Paper", item["title"])

	attachments, ok := item["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)
	att := attachments[0].(map[string]any)
	assert.Equal(t, "application/pdf", att["mimeType"])
}

func TestSubmitCollectionOverride(t *testing.T) {
	var payload saveItemsPayload
	withConnector(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	})

	client := NewClient(types.ZoteroConfig{Collection: "DEFAULT"})
	_, err := client.Submit(context.Background(), testRecord(), "", "OVERRIDE")

	require.NoError(t, err)
	assert.Equal(t, "OVERRIDE", payload.Target)
}

func TestSubmitOmitsEmptyFields(t *testing.T) {
	var payload saveItemsPayload
	withConnector(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	})

	record := types.PaperRecord{ItemType: types.ItemTypePreprint}
	client := NewClient(types.ZoteroConfig{})
	_, err := client.Submit(context.Background(), record, "", "")
	require.NoError(t, err)

	item := payload.Items[0]
	_, hasTitle := item["title"]
	assert.False(t, hasTitle, "empty title must be omitted, not sent as \"\"")
	_, hasAttachments := item["attachments"]
	assert.False(t, hasAttachments)
}

func TestSubmitRejected(t *testing.T) {
	withConnector(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad item", http.StatusInternalServerError)
	})

	client := NewClient(types.ZoteroConfig{})
	result, err := client.Submit(context.Background(), testRecord(), "", "")

	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "HTTP 500")
}
