package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"adventure_hunt/internal/platform/cache"
)

const pikachuJSON = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"types": [{"type": {"name": "electric"}}],
	"abilities": [{"ability": {"name": "static"}}],
	"sprites": {"front_default": "https://img.example/25.png"}
}`

func newPokemonTestAdapter(t *testing.T, handler http.Handler, rateLimit int) (*PokemonAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	adapter := NewPokemonAdapter(
		NewClient(2*time.Second),
		cache.NewMemoryStore(),
		server.URL,
		time.Minute,
		rateLimit,
		time.Minute,
	)
	return adapter, server
}

func TestPokemonGetByID(t *testing.T) {
	var hits atomic.Int64
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/pokemon/25" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(pikachuJSON))
	}), 100)

	res := adapter.GetByID(context.Background(), "1.2.3.4", 25)
	if !res.Success {
		t.Fatalf("GetByID() success = false, error = %s", res.Error)
	}
	if res.Status != http.StatusOK {
		t.Errorf("Status = %d, want %d", res.Status, http.StatusOK)
	}
	if res.Version != pokemonAPIVersion || res.Timestamp == 0 {
		t.Errorf("missing versioned contract fields: version=%q timestamp=%d", res.Version, res.Timestamp)
	}

	pokemon, ok := res.Data.(Pokemon)
	if !ok {
		t.Fatalf("Data is %T, want Pokemon", res.Data)
	}
	if pokemon.Name != "pikachu" || len(pokemon.Types) != 1 || pokemon.Types[0] != "electric" {
		t.Errorf("reshaped pokemon = %+v", pokemon)
	}
	if pokemon.Sprite != "https://img.example/25.png" {
		t.Errorf("Sprite = %q", pokemon.Sprite)
	}

	// Second call must come from the cache.
	res = adapter.GetByID(context.Background(), "1.2.3.4", 25)
	if !res.Success {
		t.Fatalf("cached GetByID() success = false")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hits = %d, want 1", got)
	}
}

func TestPokemonGetByIDInvalid(t *testing.T) {
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid input")
	}), 100)

	res := adapter.GetByID(context.Background(), "1.2.3.4", 0)
	if res.Success || res.Status != http.StatusBadRequest {
		t.Errorf("GetByID(0) = success=%v status=%d, want failure with 400", res.Success, res.Status)
	}
}

func TestPokemonOfflineFallback(t *testing.T) {
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), 100)

	res := adapter.GetByID(context.Background(), "1.2.3.4", 25)
	if res.Success {
		t.Fatal("GetByID() success = true with broken upstream")
	}
	if res.Status != http.StatusOK {
		t.Errorf("Status = %d, want %d (offline envelopes stay renderable)", res.Status, http.StatusOK)
	}
	if !res.OfflineMode {
		t.Error("OfflineMode = false, want true")
	}
	pokemon, ok := res.Data.(Pokemon)
	if !ok || pokemon.Name != "pikachu" {
		t.Errorf("offline fallback = %+v, want pikachu", res.Data)
	}

	// No offline entry for this ID: envelope still renders, data empty.
	res = adapter.GetByID(context.Background(), "1.2.3.4", 9999)
	if res.Success || !res.OfflineMode || res.Data != nil {
		t.Errorf("GetByID(9999) = %+v, want empty offline envelope", res.Envelope)
	}
}

func TestPokemonSearch(t *testing.T) {
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/pokemon/pikachu") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(pikachuJSON))
	}), 100)

	// Slug sanitization brings mixed case and spaces down to the API form.
	res := adapter.Search(context.Background(), "1.2.3.4", "  PIKACHU ")
	if !res.Success {
		t.Fatalf("Search() success = false, error = %s", res.Error)
	}

	res = adapter.Search(context.Background(), "1.2.3.4", "!!!")
	if res.Success || res.Status != http.StatusBadRequest {
		t.Errorf("Search(garbage) = success=%v status=%d, want failure with 400", res.Success, res.Status)
	}
}

func TestPokemonQuota(t *testing.T) {
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pikachuJSON))
	}), 2)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if res := adapter.GetByID(ctx, "9.9.9.9", 25); res.Status == http.StatusTooManyRequests {
			t.Fatalf("request %d rate limited below quota", i+1)
		}
	}

	res := adapter.GetByID(ctx, "9.9.9.9", 25)
	if res.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d once quota is spent", res.Status, http.StatusTooManyRequests)
	}
	if res.Success {
		t.Error("Success = true on rate-limited result")
	}

	// Quota is per IP.
	if res := adapter.GetByID(ctx, "8.8.8.8", 25); res.Status == http.StatusTooManyRequests {
		t.Error("other IP was rate limited")
	}
}

func TestPokemonList(t *testing.T) {
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("limit = %s, want 2", got)
		}
		w.Write([]byte(`{
			"count": 1302,
			"next": "https://pokeapi.example/pokemon?limit=2&offset=2",
			"results": [
				{"name": "bulbasaur", "url": "https://pokeapi.example/pokemon/1/"},
				{"name": "ivysaur", "url": "https://pokeapi.example/pokemon/2/"}
			]
		}`))
	}), 100)

	res := adapter.List(context.Background(), "1.2.3.4", 2, 0)
	if !res.Success {
		t.Fatalf("List() success = false, error = %s", res.Error)
	}
	if res.Meta == nil || res.Meta.Pagination == nil {
		t.Fatal("List() missing pagination meta")
	}
	p := res.Meta.Pagination
	if p.Total != 1302 || p.Limit != 2 || p.Offset != 0 || !p.HasMore {
		t.Errorf("pagination = %+v", p)
	}
}

func TestPokemonListOffline(t *testing.T) {
	adapter, _ := newPokemonTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 100)

	res := adapter.List(context.Background(), "1.2.3.4", 2, 0)
	if res.Success || !res.OfflineMode {
		t.Fatalf("List() = success=%v offline=%v, want offline envelope", res.Success, res.OfflineMode)
	}
	refs, ok := res.Data.([]PokemonRef)
	if !ok {
		t.Fatalf("Data is %T, want []PokemonRef", res.Data)
	}
	if len(refs) != 2 {
		t.Errorf("offline page size = %d, want 2", len(refs))
	}
	if res.Meta == nil || res.Meta.Pagination == nil || !res.Meta.Pagination.HasMore {
		t.Errorf("offline pagination = %+v", res.Meta)
	}
}
