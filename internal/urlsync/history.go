package urlsync

import (
	"net/url"
	"sync"
)

// MemoryHistory is a single-entry location kept in memory.
type MemoryHistory struct {
	mu       sync.Mutex
	loc      url.URL
	replaces int
}

func NewMemoryHistory(location string) (*MemoryHistory, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	return &MemoryHistory{loc: *u}, nil
}

func (h *MemoryHistory) Query() url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loc.Query()
}

func (h *MemoryHistory) ReplaceQuery(v url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loc.RawQuery = v.Encode()
	h.replaces++
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loc.String()
}

// Replaces counts writes; the entry count itself never grows.
func (h *MemoryHistory) Replaces() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.replaces
}
