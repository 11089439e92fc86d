// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the page/PDF fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// CookieFile is an optional path to a saved cookie file (JSON object
	// or a raw "name=value; name2=value2" header string).
	CookieFile string `json:"cookie_file,omitempty" yaml:"cookie_file,omitempty"`

	// MaxRetries bounds retries on HTTP 429 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ZoteroConfig holds settings for the Zotero connector client.
type ZoteroConfig struct {
	// Timeout is the request timeout for connector calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Collection is the default target collection key. Empty saves to
	// the library root.
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
}

// HistoryConfig holds settings for the import history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database.
	Dir string `json:"dir" yaml:"dir"`

	// MaxEntries is the default number of entries listed (default 20).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// Config groups all component configurations.
type Config struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Zotero  ZoteroConfig  `json:"zotero" yaml:"zotero"`
	History HistoryConfig `json:"history" yaml:"history"`
}
