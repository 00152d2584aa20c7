package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: Config{
				Endpoint: DefaultEndpoint,
				ClientID: "TestApp/1.0.0 (test@example.com)",
			},
			expectError: false,
		},
		{
			name: "empty client id",
			config: Config{
				Endpoint: DefaultEndpoint,
			},
			expectError: true,
			errorMsg:    "client-id is required",
		},
		{
			name: "empty endpoint falls back to default",
			config: Config{
				ClientID: "TestApp/1.0.0",
			},
			expectError: false,
		},
		{
			name: "non-http endpoint",
			config: Config{
				Endpoint: "ftp://cmr.earthdata.nasa.gov/search",
				ClientID: "TestApp/1.0.0",
			},
			expectError: true,
			errorMsg:    `endpoint must be http or https (got "ftp://cmr.earthdata.nasa.gov/search")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if c == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	clientID := "TestApp/1.0.0"
	cfg := DefaultConfig(clientID)

	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", cfg.Endpoint, DefaultEndpoint)
	}
	if cfg.ClientID != clientID {
		t.Errorf("ClientID = %q, want %q", cfg.ClientID, clientID)
	}
	if cfg.Timeout <= 0 {
		t.Errorf("Timeout = %v, should be > 0", cfg.Timeout)
	}
}

func TestGet_HeadersAndParams(t *testing.T) {
	var gotClientID, gotAccept, gotScrollID, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClientID = r.Header.Get("Client-Id")
		gotAccept = r.Header.Get("Accept")
		gotScrollID = r.Header.Get("CMR-Scroll-Id")
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"feed": {"entry": []}}`))
	}))
	defer server.Close()

	c, err := New(Config{Endpoint: server.URL, ClientID: "TestApp/1.0.0"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	params := url.Values{}
	params.Set("short_name", "ATL06")

	header := http.Header{}
	header.Set("CMR-Scroll-Id", "12345")

	resp, err := c.Get(context.Background(), "/granules.json", params, header)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	resp.Body.Close()

	if gotClientID != "TestApp/1.0.0" {
		t.Errorf("Client-Id = %q, want %q", gotClientID, "TestApp/1.0.0")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if gotScrollID != "12345" {
		t.Errorf("CMR-Scroll-Id = %q, want 12345", gotScrollID)
	}
	if gotQuery != "short_name=ATL06" {
		t.Errorf("query = %q, want short_name=ATL06", gotQuery)
	}
}

func TestPostJSON_Body(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, err := New(Config{Endpoint: server.URL, ClientID: "TestApp/1.0.0"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	resp, err := c.PostJSON(context.Background(), "/clear-scroll", map[string]string{"scroll_id": "12345"})
	if err != nil {
		t.Fatalf("PostJSON() failed: %v", err)
	}
	resp.Body.Close()

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if string(gotBody) != `{"scroll_id":"12345"}` {
		t.Errorf("body = %s, want {\"scroll_id\":\"12345\"}", gotBody)
	}
}

func TestDo_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": ["Collection short_name [BOGUS] was not found"]}`))
	}))
	defer server.Close()

	c, err := New(Config{Endpoint: server.URL, ClientID: "TestApp/1.0.0"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = c.Get(context.Background(), "/granules.json", nil, nil)
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	var cmrErr *CMRError
	if !errors.As(err, &cmrErr) {
		t.Fatalf("Error is %T, want *CMRError", err)
	}
	if cmrErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", cmrErr.StatusCode)
	}
	if cmrErr.ErrorClass != ErrorClassClient {
		t.Errorf("ErrorClass = %q, want %q", cmrErr.ErrorClass, ErrorClassClient)
	}
	if len(cmrErr.Errors) != 1 || cmrErr.Errors[0] != "Collection short_name [BOGUS] was not found" {
		t.Errorf("Errors = %v, want CMR error body entries", cmrErr.Errors)
	}
	if IsRetryable(err) {
		t.Error("Client errors should not be retryable")
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c, err := New(Config{Endpoint: server.URL, ClientID: "TestApp/1.0.0", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = c.Get(context.Background(), "/granules.json", nil, nil)
	if err == nil {
		t.Fatal("Expected timeout error")
	}

	var cmrErr *CMRError
	if !errors.As(err, &cmrErr) {
		t.Fatalf("Error is %T, want *CMRError", err)
	}
	if cmrErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %q, want %q", cmrErr.ErrorClass, ErrorClassNetwork)
	}
	if !IsRetryable(err) {
		t.Error("Network errors should be retryable")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		path     string
		want     string
	}{
		{
			name:     "root endpoint",
			endpoint: "https://cmr.example.com",
			path:     "/granules.json",
			want:     "https://cmr.example.com/granules.json",
		},
		{
			name:     "endpoint with search path",
			endpoint: "https://cmr.example.com/search",
			path:     "/granules.json",
			want:     "https://cmr.example.com/search/granules.json",
		},
		{
			name:     "trailing slash on endpoint",
			endpoint: "https://cmr.example.com/search/",
			path:     "clear-scroll",
			want:     "https://cmr.example.com/search/clear-scroll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{Endpoint: tt.endpoint, ClientID: "TestApp/1.0.0"})
			if err != nil {
				t.Fatalf("Failed to create client: %v", err)
			}

			if got := c.resolve(tt.path).String(); got != tt.want {
				t.Errorf("resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
