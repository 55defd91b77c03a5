// Package enrich holds the clients for the optional enrichment
// collaborators: current weather, exchange rates, and destination photos.
// Every lookup is a soft failure — an error here degrades the response, it
// never aborts the request.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound means the collaborator answered but does not know the place.
var ErrNotFound = errors.New("place not found")

// ErrUnavailable means the lookup is not configured (no API key).
var ErrUnavailable = errors.New("lookup unavailable")

// Weather is a current-conditions snapshot for a place.
type Weather struct {
	Place            string
	Temperature      float64
	FeelsLike        float64
	Condition        string
	Humidity         int
	WindSpeed        float64
	Visibility       int
	UTCOffsetSeconds int
	CountryCode      string
}

type WeatherClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewWeatherClient(endpoint, apiKey string, timeout time.Duration) *WeatherClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WeatherClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type weatherPayload struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Timezone   int `json:"timezone"`
	Sys        struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

// Current fetches current conditions for a place.
func (c *WeatherClient) Current(ctx context.Context, place string) (*Weather, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "es")

	endpointURL := c.endpoint + "/data/2.5/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather lookup failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload weatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	condition := ""
	if len(payload.Weather) > 0 {
		condition = payload.Weather[0].Description
	}

	name := payload.Name
	if name == "" {
		name = place
	}

	return &Weather{
		Place:            name,
		Temperature:      payload.Main.Temp,
		FeelsLike:        payload.Main.FeelsLike,
		Condition:        condition,
		Humidity:         payload.Main.Humidity,
		WindSpeed:        payload.Wind.Speed,
		Visibility:       payload.Visibility,
		UTCOffsetSeconds: payload.Timezone,
		CountryCode:      payload.Sys.Country,
	}, nil
}
