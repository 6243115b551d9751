package provider

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"adventure_hunt/internal/common"
)

// jokeBlacklist keeps the feed family-friendly regardless of category.
const jokeBlacklist = "nsfw,religious,political,racist,sexist,explicit"

var jokeCategories = map[string]bool{
	"any": true, "programming": true, "misc": true, "pun": true,
	"spooky": true, "christmas": true,
}

type Joke struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Joke     string `json:"joke,omitempty"`
	Setup    string `json:"setup,omitempty"`
	Delivery string `json:"delivery,omitempty"`
	Safe     bool   `json:"safe"`
}

type jokeAPIResponse struct {
	Error    bool   `json:"error"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
	Safe     bool   `json:"safe"`
}

var offlineJokes = []Joke{
	{
		Category: "programming",
		Type:     "single",
		Joke:     "Why do programmers prefer dark mode? Because light attracts bugs!",
		Safe:     true,
	},
	{
		Category: "misc",
		Type:     "twopart",
		Setup:    "Why did the scarecrow win an award?",
		Delivery: "Because he was outstanding in his field!",
		Safe:     true,
	},
	{
		Category: "programming",
		Type:     "single",
		Joke:     "How many programmers does it take to change a light bulb? None, that's a hardware problem!",
		Safe:     true,
	},
}

type JokeAdapter struct {
	client  *Client
	baseURL string
}

func NewJokeAdapter(client *Client, baseURL string) *JokeAdapter {
	return &JokeAdapter{client: client, baseURL: baseURL}
}

func (a *JokeAdapter) Random(ctx context.Context, category string) Result {
	if category == "" {
		category = "any"
	}
	category = strings.ToLower(category)
	if !jokeCategories[category] {
		return invalid("Unknown joke category")
	}

	jokeURL := fmt.Sprintf("%s/joke/%s?blacklistFlags=%s", a.baseURL, category, jokeBlacklist)
	var raw jokeAPIResponse
	if err := a.client.getJSON(ctx, "jokeapi", jokeURL, &raw); err != nil {
		return offline(err, offlineJokes[rand.IntN(len(offlineJokes))])
	}
	if raw.Error {
		msg := raw.Message
		if msg == "" {
			msg = "Unknown error"
		}
		err := fmt.Errorf("joke API error: %s: %w", msg, common.ErrUpstream)
		return offline(err, offlineJokes[rand.IntN(len(offlineJokes))])
	}

	return ok(Joke{
		Category: raw.Category,
		Type:     raw.Type,
		Joke:     raw.Joke,
		Setup:    raw.Setup,
		Delivery: raw.Delivery,
		Safe:     raw.Safe,
	})
}
