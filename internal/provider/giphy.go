package provider

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gosimple/slug"
)

var giphyRatings = map[string]bool{"g": true, "pg": true, "pg-13": true, "r": true}

type Gif struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	EmbedURL string    `json:"embed_url"`
	Images   GifImages `json:"images"`
}

type GifImages struct {
	Original    string `json:"original"`
	FixedHeight string `json:"fixed_height"`
	FixedWidth  string `json:"fixed_width"`
	Preview     string `json:"preview"`
}

type GifPage struct {
	TotalCount int   `json:"total_count"`
	Count      int   `json:"count"`
	Gifs       []Gif `json:"gifs"`
}

type giphyGif struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	EmbedURL string `json:"embed_url"`
	Images   struct {
		Original struct {
			URL string `json:"url"`
		} `json:"original"`
		FixedHeight struct {
			URL string `json:"url"`
		} `json:"fixed_height"`
		FixedWidth struct {
			URL string `json:"url"`
		} `json:"fixed_width"`
		PreviewGif struct {
			URL string `json:"url"`
		} `json:"preview_gif"`
	} `json:"images"`
}

type giphyListResponse struct {
	Data       []giphyGif `json:"data"`
	Pagination struct {
		TotalCount int `json:"total_count"`
		Count      int `json:"count"`
	} `json:"pagination"`
}

type giphyRandomResponse struct {
	Data giphyGif `json:"data"`
}

type GiphyAdapter struct {
	client  *Client
	baseURL string
	apiKey  string
}

func NewGiphyAdapter(client *Client, baseURL, apiKey string) *GiphyAdapter {
	return &GiphyAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (a *GiphyAdapter) Search(ctx context.Context, query string, limit int, rating string) Result {
	sanitized := slug.Make(query)
	if sanitized == "" {
		return invalid("Missing query parameter")
	}
	rating, valid := normalizeRating(rating)
	if !valid {
		return invalid("Unknown rating")
	}

	params := url.Values{}
	params.Set("q", sanitized)
	params.Set("api_key", a.apiKey)
	params.Set("limit", strconv.Itoa(clampGifLimit(limit)))
	params.Set("rating", rating)

	var raw giphyListResponse
	if err := a.client.getJSON(ctx, "giphy", a.baseURL+"/search?"+params.Encode(), &raw); err != nil {
		return offline(err, nil)
	}

	return ok(GifPage{
		TotalCount: raw.Pagination.TotalCount,
		Count:      raw.Pagination.Count,
		Gifs:       reshapeGifs(raw.Data),
	})
}

func (a *GiphyAdapter) Random(ctx context.Context, tag, rating string) Result {
	if tag == "" {
		tag = "celebration"
	}
	sanitized := slug.Make(tag)
	if sanitized == "" {
		return invalid("Invalid tag")
	}
	rating, valid := normalizeRating(rating)
	if !valid {
		return invalid("Unknown rating")
	}

	params := url.Values{}
	params.Set("tag", sanitized)
	params.Set("api_key", a.apiKey)
	params.Set("rating", rating)

	var raw giphyRandomResponse
	if err := a.client.getJSON(ctx, "giphy", a.baseURL+"/random?"+params.Encode(), &raw); err != nil {
		return offline(err, nil)
	}
	return ok(reshapeGif(raw.Data))
}

func (a *GiphyAdapter) Trending(ctx context.Context, limit int) Result {
	params := url.Values{}
	params.Set("api_key", a.apiKey)
	params.Set("limit", strconv.Itoa(clampGifLimit(limit)))
	params.Set("rating", "g")

	var raw giphyListResponse
	if err := a.client.getJSON(ctx, "giphy", a.baseURL+"/trending?"+params.Encode(), &raw); err != nil {
		return offline(err, nil)
	}

	return ok(GifPage{
		TotalCount: raw.Pagination.TotalCount,
		Count:      raw.Pagination.Count,
		Gifs:       reshapeGifs(raw.Data),
	})
}

func normalizeRating(rating string) (string, bool) {
	if rating == "" {
		return "g", true
	}
	if !giphyRatings[rating] {
		return "", false
	}
	return rating, true
}

func clampGifLimit(limit int) int {
	if limit < 1 {
		return 10
	}
	if limit > 25 {
		return 25
	}
	return limit
}

func reshapeGifs(raw []giphyGif) []Gif {
	gifs := make([]Gif, 0, len(raw))
	for _, g := range raw {
		gifs = append(gifs, reshapeGif(g))
	}
	return gifs
}

func reshapeGif(raw giphyGif) Gif {
	return Gif{
		ID:       raw.ID,
		Title:    raw.Title,
		URL:      raw.URL,
		EmbedURL: raw.EmbedURL,
		Images: GifImages{
			Original:    raw.Images.Original.URL,
			FixedHeight: raw.Images.FixedHeight.URL,
			FixedWidth:  raw.Images.FixedWidth.URL,
			Preview:     raw.Images.PreviewGif.URL,
		},
	}
}
