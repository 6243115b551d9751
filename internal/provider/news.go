package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"adventure_hunt/internal/common"

	"github.com/gosimple/slug"
)

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Content     string `json:"content"`
}

type NewsPage struct {
	TotalResults int       `json:"totalResults"`
	Query        string    `json:"query,omitempty"`
	Articles     []Article `json:"articles"`
}

type NewsFact struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

type NewsAdapter struct {
	client  *Client
	baseURL string
	apiKey  string
}

func NewNewsAdapter(client *Client, baseURL, apiKey string) *NewsAdapter {
	return &NewsAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (a *NewsAdapter) Latest(ctx context.Context, keyword string, pageSize int) Result {
	if keyword == "" {
		keyword = "technology"
	}
	sanitized := slug.Make(keyword)
	if sanitized == "" {
		return invalid("Invalid keyword")
	}

	params := url.Values{}
	params.Set("q", sanitized)
	params.Set("pageSize", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", a.apiKey)

	page, err := a.fetch(ctx, a.baseURL+"/everything?"+params.Encode())
	if err != nil {
		return offline(err, nil)
	}
	return ok(page)
}

func (a *NewsAdapter) ByCategory(ctx context.Context, category string, pageSize int) Result {
	if category == "" {
		category = "technology"
	}
	sanitized := slug.Make(category)
	if sanitized == "" {
		return invalid("Invalid category")
	}

	params := url.Values{}
	params.Set("category", sanitized)
	params.Set("pageSize", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("apiKey", a.apiKey)

	page, err := a.fetch(ctx, a.baseURL+"/top-headlines?"+params.Encode())
	if err != nil {
		return offline(err, nil)
	}
	return ok(page)
}

func (a *NewsAdapter) Search(ctx context.Context, query string, pageSize int) Result {
	sanitized := slug.Make(query)
	if sanitized == "" {
		return invalid("Missing query parameter")
	}

	params := url.Values{}
	params.Set("q", sanitized)
	params.Set("pageSize", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("sortBy", "relevancy")
	params.Set("apiKey", a.apiKey)

	page, err := a.fetch(ctx, a.baseURL+"/everything?"+params.Encode())
	if err != nil {
		return offline(err, nil)
	}
	page.Query = query
	return ok(page)
}

// RandomFact reduces the freshest technology article to a headline blurb.
func (a *NewsAdapter) RandomFact(ctx context.Context) Result {
	params := url.Values{}
	params.Set("q", "technology")
	params.Set("pageSize", "1")
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", a.apiKey)

	page, err := a.fetch(ctx, a.baseURL+"/everything?"+params.Encode())
	if err != nil {
		return offline(err, nil)
	}
	if len(page.Articles) == 0 {
		return offline(fmt.Errorf("no articles returned: %w", common.ErrUpstream), nil)
	}

	article := page.Articles[0]
	return ok(NewsFact{
		Title:       article.Title,
		Description: article.Description,
		Source:      article.Source,
	})
}

func (a *NewsAdapter) fetch(ctx context.Context, rawURL string) (*NewsPage, error) {
	var raw newsAPIResponse
	if err := a.client.getJSON(ctx, "newsapi", rawURL, &raw); err != nil {
		return nil, err
	}
	if raw.Status != "ok" {
		msg := raw.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, fmt.Errorf("news API error: %s: %w", msg, common.ErrUpstream)
	}

	articles := make([]Article, 0, len(raw.Articles))
	for _, art := range raw.Articles {
		articles = append(articles, Article{
			Title:       art.Title,
			Description: art.Description,
			URL:         art.URL,
			URLToImage:  art.URLToImage,
			PublishedAt: art.PublishedAt,
			Source:      art.Source.Name,
			Content:     art.Content,
		})
	}
	return &NewsPage{TotalResults: raw.TotalResults, Articles: articles}, nil
}

func clampPageSize(pageSize int) int {
	if pageSize < 1 {
		return 10
	}
	if pageSize > 50 {
		return 50
	}
	return pageSize
}
