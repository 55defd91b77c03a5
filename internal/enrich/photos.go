package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type PhotoClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewPhotoClient(endpoint, apiKey string, timeout time.Duration) *PhotoClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &PhotoClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type photoPayload struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns up to count image URLs for a place.
func (c *PhotoClient) Search(ctx context.Context, place string, count int) ([]string, error) {
	if c.apiKey == "" {
		return nil, ErrUnavailable
	}

	if count <= 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("query", place)
	query.Set("per_page", strconv.Itoa(count))
	query.Set("orientation", "landscape")

	endpointURL := c.endpoint + "/search/photos?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build photo request: %w", err)
	}

	req.Header.Set("Authorization", "Client-ID "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("photo lookup failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload photoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode photo response: %w", err)
	}

	urls := make([]string, 0, len(payload.Results))
	for _, result := range payload.Results {
		if result.URLs.Regular != "" {
			urls = append(urls, result.URLs.Regular)
		}
		if len(urls) == count {
			break
		}
	}

	return urls, nil
}
