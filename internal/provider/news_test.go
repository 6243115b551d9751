package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const newsJSON = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"title": "Go 1.24 released",
			"description": "The latest Go release",
			"url": "https://news.example/go-1-24",
			"publishedAt": "2025-02-11T10:00:00Z",
			"source": {"name": "Example News"}
		},
		{
			"title": "Another story",
			"description": "More news",
			"url": "https://news.example/other",
			"publishedAt": "2025-02-10T09:00:00Z",
			"source": {"name": "Example News"}
		}
	]
}`

func newNewsTestAdapter(t *testing.T, handler http.Handler) *NewsAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewNewsAdapter(NewClient(2*time.Second), server.URL, "news-key")
}

func TestNewsLatest(t *testing.T) {
	adapter := newNewsTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/everything" {
			t.Errorf("path = %s, want /everything", r.URL.Path)
		}
		if q.Get("q") != "technology" || q.Get("sortBy") != "publishedAt" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if q.Get("pageSize") != "10" {
			t.Errorf("pageSize = %s, want clamped default 10", q.Get("pageSize"))
		}
		w.Write([]byte(newsJSON))
	}))

	res := adapter.Latest(context.Background(), "", 0)
	if !res.Success {
		t.Fatalf("Latest() success = false, error = %s", res.Error)
	}
	page, ok := res.Data.(*NewsPage)
	if !ok {
		t.Fatalf("Data is %T, want *NewsPage", res.Data)
	}
	if page.TotalResults != 2 || len(page.Articles) != 2 {
		t.Errorf("page = %+v", page)
	}
	if page.Articles[0].Source != "Example News" {
		t.Errorf("Source = %q, want flattened source name", page.Articles[0].Source)
	}
}

func TestNewsSearch(t *testing.T) {
	adapter := newNewsTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "climate-change" || q.Get("sortBy") != "relevancy" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(newsJSON))
	}))

	res := adapter.Search(context.Background(), "Climate Change", 10)
	if !res.Success {
		t.Fatalf("Search() success = false, error = %s", res.Error)
	}
	page := res.Data.(*NewsPage)
	if page.Query != "Climate Change" {
		t.Errorf("Query = %q, want the original query echoed", page.Query)
	}

	res = adapter.Search(context.Background(), "", 10)
	if res.Success || res.Status != http.StatusBadRequest {
		t.Errorf("Search(empty) = success=%v status=%d, want failure with 400", res.Success, res.Status)
	}
}

func TestNewsByCategory(t *testing.T) {
	adapter := newNewsTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("path = %s, want /top-headlines", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "science" {
			t.Errorf("category = %s, want science", got)
		}
		w.Write([]byte(newsJSON))
	}))

	res := adapter.ByCategory(context.Background(), "Science", 10)
	if !res.Success {
		t.Fatalf("ByCategory() success = false, error = %s", res.Error)
	}
}

func TestNewsUpstreamError(t *testing.T) {
	adapter := newNewsTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "apiKeyInvalid"}`))
	}))

	res := adapter.Latest(context.Background(), "", 0)
	if res.Success || !res.OfflineMode || res.Status != http.StatusOK {
		t.Errorf("Latest() = success=%v offline=%v status=%d, want offline envelope with 200",
			res.Success, res.OfflineMode, res.Status)
	}
}
