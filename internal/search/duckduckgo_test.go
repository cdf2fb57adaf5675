package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const duckDuckGoResultPage = `<!DOCTYPE html>
<html>
<body>
  <div class="result">
    <a class="result__a" href="#">Heading link</a>
    <a class="result__snippet" href="#">First <b>snippet</b> text.</a>
  </div>
  <div class="result">
    <a class="result__snippet js-result-snippet" href="#">Second snippet.</a>
  </div>
  <div class="result">
    <a class="result__url" href="#">example.com</a>
  </div>
</body>
</html>`

func TestDuckDuckGoParsesSnippets(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "solar power" {
			t.Errorf("expected query %q, got %q", "solar power", got)
		}
		if got := r.Header.Get("User-Agent"); got != duckDuckGoUserAgent {
			t.Errorf("expected user agent %q, got %q", duckDuckGoUserAgent, got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(duckDuckGoResultPage)); err != nil {
			t.Errorf("writing response failed: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	backend := NewDuckDuckGo(DuckDuckGoOptions{Endpoint: server.URL})

	snippets, err := backend.Search(context.Background(), "solar power")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	expected := []string{"First snippet text.", "Second snippet."}
	if len(snippets) != len(expected) {
		t.Fatalf("expected %d snippets, got %d: %v", len(expected), len(snippets), snippets)
	}

	for idx, want := range expected {
		if snippets[idx] != want {
			t.Fatalf("expected snippet %q at index %d, got %q", want, idx, snippets[idx])
		}
	}
}

func TestDuckDuckGoRejectsBlankTopic(t *testing.T) {
	t.Parallel()

	backend := NewDuckDuckGo(DuckDuckGoOptions{})

	if _, err := backend.Search(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank topic")
	}
}

func TestDuckDuckGoReportsUpstreamStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	backend := NewDuckDuckGo(DuckDuckGoOptions{Endpoint: server.URL})

	if _, err := backend.Search(context.Background(), "topic"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestDuckDuckGoReturnsEmptyWhenNoSnippets(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte("<html><body><p>No results.</p></body></html>")); err != nil {
			t.Errorf("writing response failed: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	backend := NewDuckDuckGo(DuckDuckGoOptions{Endpoint: server.URL})

	snippets, err := backend.Search(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(snippets) != 0 {
		t.Fatalf("expected no snippets, got %v", snippets)
	}
}
