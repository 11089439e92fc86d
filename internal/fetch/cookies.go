// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Jar holds session cookies as a flat name→value map. Paywalled
// publishers only need the cookie header replayed; path and expiry
// handling are not required for that.
type Jar struct {
	mu      sync.RWMutex
	cookies map[string]string
}

// NewJar returns an empty cookie jar.
func NewJar() *Jar {
	return &Jar{cookies: make(map[string]string)}
}

// Load parses raw cookie data and merges it into the jar. Two formats
// are accepted: a JSON object of name→value pairs, or the raw
// "name=value; name2=value2" string copied from a browser's request
// headers.
func (j *Jar) Load(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty cookie data")
	}

	parsed := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Not JSON; try the header-string format.
		for _, item := range strings.Split(raw, ";") {
			name, value, found := strings.Cut(strings.TrimSpace(item), "=")
			if !found || name == "" {
				continue
			}
			parsed[name] = value
		}
		if len(parsed) == 0 {
			return fmt.Errorf("unrecognized cookie format")
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for name, value := range parsed {
		j.cookies[name] = value
	}
	return nil
}

// LoadFile reads cookie data from a file and merges it into the jar.
func (j *Jar) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading cookie file: %w", err)
	}
	if err := j.Load(string(data)); err != nil {
		return fmt.Errorf("parsing cookie file %s: %w", path, err)
	}
	return nil
}

// Header renders the jar as a Cookie header value, names sorted for
// deterministic output. Empty jar yields the empty string.
func (j *Jar) Header() string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.cookies) == 0 {
		return ""
	}
	names := make([]string, 0, len(j.cookies))
	for name := range j.cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+j.cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// Count returns the number of cookies held.
func (j *Jar) Count() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.cookies)
}

// Export serializes the jar as indented JSON for saving to disk.
func (j *Jar) Export() ([]byte, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return json.MarshalIndent(j.cookies, "", "  ")
}
