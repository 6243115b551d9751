package provider

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/platform/cache"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const pokemonAPIVersion = "1.0"

type Pokemon struct {
	ID        int      `json:"id,omitempty"`
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Height    int      `json:"height"`
	Weight    int      `json:"weight"`
	Sprite    string   `json:"sprite,omitempty"`
	Abilities []string `json:"abilities,omitempty"`
}

type PokemonRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokeAPI wire shapes; only the fields the adapter reshapes.
type pokeAPIPokemon struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

type pokeAPIList struct {
	Count   int          `json:"count"`
	Next    *string      `json:"next"`
	Results []PokemonRef `json:"results"`
}

var offlinePokemon = map[int]Pokemon{
	1:  {Name: "bulbasaur", Types: []string{"grass", "poison"}, Height: 7, Weight: 69},
	4:  {Name: "charmander", Types: []string{"fire"}, Height: 6, Weight: 85},
	7:  {Name: "squirtle", Types: []string{"water"}, Height: 5, Weight: 90},
	25: {Name: "pikachu", Types: []string{"electric"}, Height: 4, Weight: 60},
}

var offlinePokemonByName = map[string]int{
	"bulbasaur": 1, "charmander": 4, "squirtle": 7, "pikachu": 25,
}

var offlinePokemonIDs = []int{1, 4, 7, 25}

// PokemonAdapter proxies PokeAPI with a response cache and a per-IP
// fixed-window quota. Its envelopes carry the versioned contract fields.
type PokemonAdapter struct {
	client     *Client
	store      cache.Store
	baseURL    string
	cacheTTL   time.Duration
	rateLimit  int
	rateWindow time.Duration
}

func NewPokemonAdapter(client *Client, store cache.Store, baseURL string, cacheTTL time.Duration, rateLimit int, rateWindow time.Duration) *PokemonAdapter {
	return &PokemonAdapter{
		client:     client,
		store:      store,
		baseURL:    baseURL,
		cacheTTL:   cacheTTL,
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
	}
}

// versioned stamps the Pokemon endpoint contract fields onto a result.
func versioned(r Result) Result {
	r.Timestamp = time.Now().Unix()
	r.Version = pokemonAPIVersion
	return r
}

// allow spends one unit of the caller's quota. Increment-and-check is atomic
// in the store, so concurrent requests from one IP cannot overshoot by more
// than the in-flight count.
func (a *PokemonAdapter) allow(ctx context.Context, clientIP string) bool {
	count, err := a.store.Incr(ctx, "rate_limit:"+clientIP, a.rateWindow)
	if err != nil {
		// A broken quota backend should not take the endpoint down.
		common.Logger.Warn("quota check failed", zap.Error(err), zap.String("client_ip", clientIP))
		return true
	}
	return count <= int64(a.rateLimit)
}

func (a *PokemonAdapter) Random(ctx context.Context, clientIP string) Result {
	if !a.allow(ctx, clientIP) {
		return versioned(rateLimited())
	}

	var list pokeAPIList
	if err := a.client.getJSON(ctx, "pokeapi", a.baseURL+"/pokemon?limit=1", &list); err != nil || list.Count < 1 {
		if err == nil {
			err = fmt.Errorf("empty pokemon index: %w", common.ErrUpstream)
		}
		id := offlinePokemonIDs[rand.IntN(len(offlinePokemonIDs))]
		return versioned(offline(err, offlinePokemon[id]))
	}

	return a.fetchByID(ctx, rand.IntN(list.Count)+1)
}

func (a *PokemonAdapter) GetByID(ctx context.Context, clientIP string, id int) Result {
	if !a.allow(ctx, clientIP) {
		return versioned(rateLimited())
	}
	if id < 1 {
		return versioned(invalid("Invalid Pokemon ID"))
	}
	return a.fetchByID(ctx, id)
}

func (a *PokemonAdapter) fetchByID(ctx context.Context, id int) Result {
	cacheKey := fmt.Sprintf("pokemon:%d", id)
	var cached Pokemon
	if found, _ := a.store.GetJSON(ctx, cacheKey, &cached); found {
		return versioned(ok(cached))
	}

	var raw pokeAPIPokemon
	if err := a.client.getJSON(ctx, "pokeapi", fmt.Sprintf("%s/pokemon/%d", a.baseURL, id), &raw); err != nil {
		fallback, found := offlinePokemon[id]
		if !found {
			return versioned(offline(err, nil))
		}
		return versioned(offline(err, fallback))
	}

	pokemon := reshapePokemon(raw)
	if err := a.store.SetJSON(ctx, cacheKey, pokemon, a.cacheTTL); err != nil {
		common.Logger.Warn("pokemon cache write failed", zap.Error(err))
	}
	return versioned(ok(pokemon))
}

func (a *PokemonAdapter) Search(ctx context.Context, clientIP, name string) Result {
	if !a.allow(ctx, clientIP) {
		return versioned(rateLimited())
	}

	sanitized := slug.Make(name)
	if sanitized == "" {
		return versioned(invalid("Invalid Pokemon name"))
	}

	cacheKey := "pokemon:search:" + sanitized
	var cached Pokemon
	if found, _ := a.store.GetJSON(ctx, cacheKey, &cached); found {
		return versioned(ok(cached))
	}

	var raw pokeAPIPokemon
	if err := a.client.getJSON(ctx, "pokeapi", a.baseURL+"/pokemon/"+sanitized, &raw); err != nil {
		if offlineID, found := offlinePokemonByName[sanitized]; found {
			return versioned(offline(err, offlinePokemon[offlineID]))
		}
		return versioned(offline(err, nil))
	}

	pokemon := reshapePokemon(raw)
	if err := a.store.SetJSON(ctx, cacheKey, pokemon, a.cacheTTL); err != nil {
		common.Logger.Warn("pokemon cache write failed", zap.Error(err))
	}
	return versioned(ok(pokemon))
}

func (a *PokemonAdapter) List(ctx context.Context, clientIP string, limit, offset int) Result {
	if !a.allow(ctx, clientIP) {
		return versioned(rateLimited())
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	type listPage struct {
		Results []PokemonRef `json:"results"`
		Meta    *common.Meta `json:"meta"`
	}

	cacheKey := fmt.Sprintf("pokemon:list:%d:%d", limit, offset)
	var cached listPage
	if found, _ := a.store.GetJSON(ctx, cacheKey, &cached); found {
		return versioned(okWithMeta(cached.Results, cached.Meta))
	}

	var raw pokeAPIList
	listURL := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", a.baseURL, limit, offset)
	if err := a.client.getJSON(ctx, "pokeapi", listURL, &raw); err != nil {
		fallback, meta := offlinePokemonPage(limit, offset)
		return versioned(offlineWithMeta(err, fallback, meta))
	}

	meta := &common.Meta{Pagination: &common.Pagination{
		Total:   raw.Count,
		Limit:   limit,
		Offset:  offset,
		HasMore: raw.Next != nil,
	}}
	if err := a.store.SetJSON(ctx, cacheKey, listPage{Results: raw.Results, Meta: meta}, a.cacheTTL); err != nil {
		common.Logger.Warn("pokemon cache write failed", zap.Error(err))
	}
	return versioned(okWithMeta(raw.Results, meta))
}

func offlinePokemonPage(limit, offset int) ([]PokemonRef, *common.Meta) {
	refs := make([]PokemonRef, 0, len(offlinePokemonIDs))
	for _, id := range offlinePokemonIDs {
		refs = append(refs, PokemonRef{Name: offlinePokemon[id].Name})
	}
	total := len(refs)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	meta := &common.Meta{Pagination: &common.Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	}}
	return refs[offset:end], meta
}

func reshapePokemon(raw pokeAPIPokemon) Pokemon {
	types := make([]string, 0, len(raw.Types))
	for _, t := range raw.Types {
		types = append(types, t.Type.Name)
	}
	abilities := make([]string, 0, len(raw.Abilities))
	for _, ab := range raw.Abilities {
		abilities = append(abilities, ab.Ability.Name)
	}
	return Pokemon{
		ID:        raw.ID,
		Name:      raw.Name,
		Types:     types,
		Height:    raw.Height,
		Weight:    raw.Weight,
		Sprite:    raw.Sprites.FrontDefault,
		Abilities: abilities,
	}
}
