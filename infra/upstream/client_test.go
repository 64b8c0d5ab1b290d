package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Control = %q", got)
		}
		w.Write([]byte(`{"date":"2024-03-01","blocks":[{"Driver":"Velu","Start":"08:00"}]}`))
	}))
	defer srv.Close()

	c := New(Config{BlocksURL: srv.URL, RowsURL: srv.URL})
	date, blocks, err := c.FetchBlocks(context.Background())
	if err != nil {
		t.Fatalf("FetchBlocks: %v", err)
	}
	if date != "2024-03-01" || len(blocks) != 1 {
		t.Fatalf("unexpected payload: date=%q blocks=%v", date, blocks)
	}
	if blocks[0]["Driver"] != "Velu" {
		t.Fatalf("unexpected block: %v", blocks[0])
	}
}

func TestFetchBlocksMissingArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"date":"2024-03-01"}`))
	}))
	defer srv.Close()

	c := New(Config{BlocksURL: srv.URL, RowsURL: srv.URL})
	_, blocks, err := c.FetchBlocks(context.Background())
	if err != nil {
		t.Fatalf("missing blocks array must not error: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected empty record set, got %v", blocks)
	}
}

func TestFetchRowsShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bare array", `[{"Driver":"Velu"},{"Driver":"Raja"}]`},
		{"wrapped", `{"data":[{"Driver":"Velu"},{"Driver":"Raja"}]}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			cl := New(Config{BlocksURL: srv.URL, RowsURL: srv.URL})
			rows, err := cl.FetchRows(context.Background())
			if err != nil {
				t.Fatalf("FetchRows: %v", err)
			}
			if len(rows) != 2 || rows[1]["Driver"] != "Raja" {
				t.Fatalf("unexpected rows: %v", rows)
			}
		})
	}
}

func TestFetchRowsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{BlocksURL: srv.URL, RowsURL: srv.URL})
	if _, err := c.FetchRows(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	} else if !strings.Contains(err.Error(), "upstream status 502") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(Config{BlocksURL: srv.URL, RowsURL: srv.URL, ProxyURL: srv.URL})
	status, body, err := c.Forward(context.Background(), http.MethodPost, strings.NewReader(`{"row":1}`))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if status != http.StatusCreated || string(body) != `{"ok":true}` {
		t.Fatalf("status=%d body=%q", status, body)
	}
}

func TestForwardUnconfigured(t *testing.T) {
	c := New(Config{BlocksURL: "http://x", RowsURL: "http://x"})
	if _, _, err := c.Forward(context.Background(), http.MethodGet, nil); err == nil {
		t.Fatal("expected error when proxy endpoint is unset")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{BlocksURL: "http://a", RowsURL: "http://b"}, false},
		{"missing blocks", Config{RowsURL: "http://b"}, true},
		{"missing rows", Config{BlocksURL: "http://a"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}
