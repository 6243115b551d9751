package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newJokeTestAdapter(t *testing.T, handler http.Handler) *JokeAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewJokeAdapter(NewClient(2*time.Second), server.URL)
}

func TestJokeRandom(t *testing.T) {
	adapter := newJokeTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/joke/programming") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.Query().Get("blacklistFlags"), "nsfw") {
			t.Error("blacklist flags missing from request")
		}
		w.Write([]byte(`{
			"error": false,
			"category": "Programming",
			"type": "twopart",
			"setup": "Why do Java developers wear glasses?",
			"delivery": "Because they cannot C#.",
			"safe": true
		}`))
	}))

	res := adapter.Random(context.Background(), "Programming")
	if !res.Success {
		t.Fatalf("Random() success = false, error = %s", res.Error)
	}
	joke, ok := res.Data.(Joke)
	if !ok {
		t.Fatalf("Data is %T, want Joke", res.Data)
	}
	if joke.Type != "twopart" || joke.Setup == "" || joke.Delivery == "" {
		t.Errorf("joke = %+v", joke)
	}
}

func TestJokeRandomUnknownCategory(t *testing.T) {
	adapter := newJokeTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an unknown category")
	}))

	res := adapter.Random(context.Background(), "dad-jokes")
	if res.Success || res.Status != http.StatusBadRequest {
		t.Errorf("Random(unknown) = success=%v status=%d, want failure with 400", res.Success, res.Status)
	}
}

func TestJokeRandomOffline(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "TransportFailure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "APIError",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error": true, "message": "No matching joke found"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newJokeTestAdapter(t, tt.handler)
			res := adapter.Random(context.Background(), "")
			if res.Success || !res.OfflineMode || res.Status != http.StatusOK {
				t.Fatalf("Random() = success=%v offline=%v status=%d, want offline envelope with 200",
					res.Success, res.OfflineMode, res.Status)
			}
			joke, ok := res.Data.(Joke)
			if !ok || !joke.Safe {
				t.Errorf("offline fallback = %+v, want a safe built-in joke", res.Data)
			}
		})
	}
}
