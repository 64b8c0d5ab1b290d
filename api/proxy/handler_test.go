package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kilianp07/driverboard/infra/upstream"
)

func TestSheetProxyPreflight(t *testing.T) {
	h := NewSheetProxyHandler(upstream.New(upstream.Config{BlocksURL: "http://x", RowsURL: "http://x"}))
	req := httptest.NewRequest(http.MethodOptions, "/api/sheet-proxy", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS origin header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("allow-methods = %q", got)
	}
}

func TestSheetProxyForwardsPost(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"queued":true}`))
	}))
	defer srv.Close()

	h := NewSheetProxyHandler(upstream.New(upstream.Config{BlocksURL: srv.URL, RowsURL: srv.URL, ProxyURL: srv.URL}))
	req := httptest.NewRequest(http.MethodPost, "/api/sheet-proxy", strings.NewReader(`{"row":7}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status must echo upstream: %d", rec.Code)
	}
	if rec.Body.String() != `{"queued":true}` {
		t.Fatalf("body must echo upstream: %s", rec.Body.String())
	}
	if gotBody != `{"row":7}` {
		t.Fatalf("forwarded body = %q", gotBody)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("CORS headers must be present on forwarded responses")
	}
}

func TestSheetProxyEchoesUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error":"macro exploded"}`))
	}))
	defer srv.Close()

	h := NewSheetProxyHandler(upstream.New(upstream.Config{BlocksURL: srv.URL, RowsURL: srv.URL, ProxyURL: srv.URL}))
	req := httptest.NewRequest(http.MethodGet, "/api/sheet-proxy", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Forward echoes upstream status verbatim, even errors.
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSheetProxyUnconfigured(t *testing.T) {
	h := NewSheetProxyHandler(upstream.New(upstream.Config{BlocksURL: "http://x", RowsURL: "http://x"}))
	req := httptest.NewRequest(http.MethodGet, "/api/sheet-proxy", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSheetProxyMethodNotAllowed(t *testing.T) {
	h := NewSheetProxyHandler(upstream.New(upstream.Config{BlocksURL: "http://x", RowsURL: "http://x"}))
	req := httptest.NewRequest(http.MethodDelete, "/api/sheet-proxy", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
