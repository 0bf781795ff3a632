package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/statpull/statpull/htmldoc"
)

func TestFetch(t *testing.T) {
	t.Run("fetches and parses a page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body><div id="poss">61%</div></body></html>`))
		}))
		defer server.Close()

		doc, err := New().Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		n := doc.FindFirst(func(n *htmldoc.Node) bool { return n.Attr("id") == "poss" })
		if n == nil {
			t.Fatal("fetched document missing expected node")
		}
		if got := n.Text(); got != "61%" {
			t.Errorf("node text = %q, want 61%%", got)
		}
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		client := New(WithUserAgent("stats-bot/2.0"))
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if gotUA != "stats-bot/2.0" {
			t.Errorf("User-Agent = %q, want stats-bot/2.0", gotUA)
		}
	})

	t.Run("default user agent when not overridden", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		if _, err := New().Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if gotUA != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
		}
	})

	t.Run("follows redirects", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body><p id="ok">here</p></body></html>`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		doc, err := New().Fetch(context.Background(), server.URL+"/moved")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if doc.FindFirst(func(n *htmldoc.Node) bool { return n.Attr("id") == "ok" }) == nil {
			t.Error("redirect target content not reached")
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer server.Close()

		_, err := New().Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("Fetch() error = nil, want error for 403")
		}
		if !strings.Contains(err.Error(), "403") {
			t.Errorf("Fetch() error = %v, want status code included", err)
		}
	})

	t.Run("empty URL is an error", func(t *testing.T) {
		if _, err := New().Fetch(context.Background(), "   "); err == nil {
			t.Error("Fetch() error = nil, want error for empty URL")
		}
	})

	t.Run("canceled context aborts the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := New().Fetch(ctx, server.URL); err == nil {
			t.Error("Fetch() error = nil, want error for canceled context")
		}
	})
}
