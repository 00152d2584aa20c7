// Package testutil provides testing utilities for the CMR granule client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock CMR endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCMR is a configurable mock CMR server for testing.
type MockCMR struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	ClearedScrollIDs  []string
}

// NewMockCMR creates a new mock CMR server.
func NewMockCMR() *MockCMR {
	mock := &MockCMR{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCMR) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCMR) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockCMR) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.ClearedScrollIDs = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCMR) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockCMR) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCMR) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetClearedScrollIDs returns the scroll ids released via clear-scroll.
func (m *MockCMR) GetClearedScrollIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.ClearedScrollIDs...)
}

// defaultHandler provides default CMR-like responses: clear-scroll releases
// are recorded and acknowledged, every other path returns an empty feed
// without scroll headers.
func (m *MockCMR) defaultHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/clear-scroll" && r.Method == http.MethodPost {
		var body struct {
			ScrollID string `json:"scroll_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"errors": ["invalid clear-scroll body: %v"]}`, err)
			return
		}

		m.mu.Lock()
		m.ClearedScrollIDs = append(m.ClearedScrollIDs, body.ScrollID)
		m.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"feed": {"entry": []}}`))
}

// MockGranule is a minimal granule entry for mock response bodies.
type MockGranule struct {
	ID                string `json:"id"`
	ProducerGranuleID string `json:"producer_granule_id"`
	GranuleSize       string `json:"granule_size"`
	TimeStart         string `json:"time_start"`
}

// NewMockGranules generates n granule entries with ICESat-2 style names.
func NewMockGranules(n int) []MockGranule {
	granules := make([]MockGranule, n)
	for i := range granules {
		granules[i] = MockGranule{
			ID:                fmt.Sprintf("G%07d-NSIDC_ECS", i+1),
			ProducerGranuleID: fmt.Sprintf("ATL06_20190623%06d_%04d0306_006_01.h5", i, i%1387+1),
			GranuleSize:       "10.5",
			TimeStart:         "2019-06-23T00:00:00.000Z",
		}
	}
	return granules
}

// ScrollDataset serves a fixed granule list through the scroll protocol:
// scroll id and hit count headers on the first request, scroll id assertion
// on every later one, pages sliced by the requested page_size.
type ScrollDataset struct {
	ScrollID string
	Granules []MockGranule

	// HitsOverride replaces the reported hit count when > 0, to simulate a
	// server that over-reports and never lets the fetch complete.
	HitsOverride int

	// FailPage fails this 1-based page with a 500 when > 0.
	FailPage int

	// OmitScrollID / OmitHits drop the session headers from the first
	// response to simulate a protocol contract violation.
	OmitScrollID bool
	OmitHits     bool

	mu        sync.Mutex
	offset    int
	pages     int
	badScroll int
}

// Handler returns the http handler serving this dataset.
func (d *ScrollDataset) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.pages++
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if d.pages == 1 {
			if !d.OmitScrollID {
				w.Header().Set("CMR-Scroll-Id", d.ScrollID)
			}
			if !d.OmitHits {
				hits := len(d.Granules)
				if d.HitsOverride > 0 {
					hits = d.HitsOverride
				}
				w.Header().Set("CMR-Hits", strconv.Itoa(hits))
			}
		} else if r.Header.Get("CMR-Scroll-Id") != d.ScrollID {
			d.badScroll++
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors": ["Scroll session not found"]}`))
			return
		}

		if d.FailPage > 0 && d.pages == d.FailPage {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"errors": ["An unexpected error occurred"]}`))
			return
		}

		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		if pageSize <= 0 {
			pageSize = 10
		}

		end := d.offset + pageSize
		if end > len(d.Granules) {
			end = len(d.Granules)
		}
		entries := d.Granules[d.offset:end]
		d.offset = end

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"feed": map[string]any{"entry": entries},
		})
	}
}

// Pages returns the number of search requests served.
func (d *ScrollDataset) Pages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pages
}

// BadScrollRequests returns the number of post-first requests that arrived
// without the correct scroll id header.
func (d *ScrollDataset) BadScrollRequests() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.badScroll
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors": ["An unexpected error occurred"]}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewBadRequestResponse creates a 400 response with a CMR error body.
func NewBadRequestResponse(message string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       fmt.Sprintf(`{"errors": [%q]}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
