package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const owmJSON = `{
	"main": {"temp": 18.5, "humidity": 72},
	"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}],
	"wind": {"speed": 4.2}
}`

func newWeatherTestAdapter(t *testing.T, handler http.Handler) *WeatherAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWeatherAdapter(NewClient(2*time.Second), server.URL, "test-key")
}

func TestWeatherCurrent(t *testing.T) {
	adapter := newWeatherTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(owmJSON))
	}))

	res := adapter.Current(context.Background(), 53.55, 9.99)
	if !res.Success {
		t.Fatalf("Current() success = false, error = %s", res.Error)
	}
	weather, ok := res.Data.(Weather)
	if !ok {
		t.Fatalf("Data is %T, want Weather", res.Data)
	}
	if weather.Condition != "Rain" || weather.Temperature != 18.5 || weather.Humidity != 72 {
		t.Errorf("reshaped weather = %+v", weather)
	}
}

func TestWeatherCurrentValidation(t *testing.T) {
	adapter := newWeatherTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid coordinates")
	}))

	res := adapter.Current(context.Background(), 91, 0)
	if res.Success || res.Status != http.StatusBadRequest {
		t.Errorf("Current(91, 0) = success=%v status=%d, want failure with 400", res.Success, res.Status)
	}
}

func TestWeatherCheckCondition(t *testing.T) {
	adapter := newWeatherTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(owmJSON))
	}))

	tests := []struct {
		name      string
		condition string
		want      bool
	}{
		{"ExactMatch", "Rain", true},
		{"CaseInsensitive", "rain", true},
		{"NoMatch", "Clear", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := adapter.CheckCondition(context.Background(), 53.55, 9.99, tt.condition)
			if !res.Success {
				t.Fatalf("CheckCondition() success = false, error = %s", res.Error)
			}
			check, ok := res.Data.(ConditionCheck)
			if !ok {
				t.Fatalf("Data is %T, want ConditionCheck", res.Data)
			}
			if check.Matches != tt.want {
				t.Errorf("Matches = %v, want %v", check.Matches, tt.want)
			}
			if check.CurrentCondition != "Rain" {
				t.Errorf("CurrentCondition = %q", check.CurrentCondition)
			}
		})
	}

	res := adapter.CheckCondition(context.Background(), 53.55, 9.99, "")
	if res.Success || res.Status != http.StatusBadRequest {
		t.Errorf("empty condition = success=%v status=%d, want failure with 400", res.Success, res.Status)
	}
}

func TestWeatherOffline(t *testing.T) {
	adapter := newWeatherTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	res := adapter.Current(context.Background(), 53.55, 9.99)
	if res.Success || !res.OfflineMode || res.Status != http.StatusOK {
		t.Errorf("Current() = success=%v offline=%v status=%d, want offline envelope with 200",
			res.Success, res.OfflineMode, res.Status)
	}
}
