package geocode

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JBLarson/dayAndNight/internal/config"
)

func testClientFor(srv *httptest.Server) *NominatimClient {
	return NewNominatimClient(config.GeocoderConfig{
		BaseURL:        srv.URL,
		UserAgent:      "test-agent/1.0",
		Timeout:        2 * time.Second,
		RequestsPerSec: 1000, // tests should not wait on the real-world limit
		MaxResults:     10,
	})
}

func TestResolve_ParsesCandidates(t *testing.T) {
	body := `[{"place_id":123,"display_name":"Berlin, Deutschland","lat":"52.5108850","lon":"13.3989367","boundingbox":["52.33","52.67","13.08","13.76"]}]`

	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected format=json, got %q", r.URL.Query().Get("format"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	result, err := testClientFor(srv).Resolve(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if gotUA != "test-agent/1.0" {
		t.Errorf("expected descriptive User-Agent, got %q", gotUA)
	}
	if gotQuery != "Berlin" {
		t.Errorf("expected q=Berlin, got %q", gotQuery)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}

	c := result.Candidates[0]
	if c.DisplayName != "Berlin, Deutschland" {
		t.Errorf("unexpected display name %q", c.DisplayName)
	}
	if c.Lat != 52.5108850 || c.Lon != 13.3989367 {
		t.Errorf("unexpected coordinates %f, %f", c.Lat, c.Lon)
	}
	if len(c.BoundingBox) != 4 {
		t.Errorf("expected 4 bounding box values, got %d", len(c.BoundingBox))
	}
	if !bytes.Equal(result.Raw, []byte(body)) {
		t.Error("Raw should preserve the provider body verbatim")
	}
}

func TestResolve_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	result, err := testClientFor(srv).Resolve(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected 0 candidates, got %d", len(result.Candidates))
	}
}

func TestResolve_FailureModesCollapseToUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bandwidth limit exceeded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := testClientFor(srv).Resolve(context.Background(), "paris")
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestResolve_HungUpstreamIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewNominatimClient(config.GeocoderConfig{
		BaseURL:        srv.URL,
		UserAgent:      "test-agent/1.0",
		Timeout:        50 * time.Millisecond,
		RequestsPerSec: 1000,
		MaxResults:     10,
	})

	start := time.Now()
	_, err := client.Resolve(context.Background(), "paris")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("timeout took %v, caller was not bounded", elapsed)
	}
}
