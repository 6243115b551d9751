package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"adventure_hunt/internal/common"
)

type Weather struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Icon        string  `json:"icon"`
}

type ConditionCheck struct {
	Matches           bool    `json:"matches"`
	CurrentCondition  string  `json:"current_condition"`
	RequiredCondition string  `json:"required_condition"`
	Weather           Weather `json:"weather_data"`
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type WeatherAdapter struct {
	client  *Client
	baseURL string
	apiKey  string
}

func NewWeatherAdapter(client *Client, baseURL, apiKey string) *WeatherAdapter {
	return &WeatherAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (a *WeatherAdapter) Current(ctx context.Context, lat, lon float64) Result {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return invalid("lat must be within [-90,90] and lon within [-180,180]")
	}

	weather, err := a.fetch(ctx, lat, lon)
	if err != nil {
		return offline(err, nil)
	}
	return ok(weather)
}

func (a *WeatherAdapter) CheckCondition(ctx context.Context, lat, lon float64, condition string) Result {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return invalid("lat must be within [-90,90] and lon within [-180,180]")
	}
	if condition == "" {
		return invalid("condition parameter is required")
	}

	weather, err := a.fetch(ctx, lat, lon)
	if err != nil {
		return offline(err, nil)
	}

	return ok(ConditionCheck{
		Matches:           strings.EqualFold(weather.Condition, condition),
		CurrentCondition:  weather.Condition,
		RequiredCondition: condition,
		Weather:           weather,
	})
}

func (a *WeatherAdapter) fetch(ctx context.Context, lat, lon float64) (Weather, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("appid", a.apiKey)
	params.Set("units", "metric")

	var raw owmResponse
	if err := a.client.getJSON(ctx, "openweathermap", a.baseURL+"/weather?"+params.Encode(), &raw); err != nil {
		return Weather{}, err
	}
	if len(raw.Weather) == 0 {
		return Weather{}, fmt.Errorf("response carries no weather block: %w", common.ErrUpstream)
	}

	return Weather{
		Temperature: raw.Main.Temp,
		Condition:   raw.Weather[0].Main,
		Description: raw.Weather[0].Description,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		Icon:        raw.Weather[0].Icon,
	}, nil
}
